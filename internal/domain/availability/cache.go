package availability

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/BruksfildServices01/barbershop-booking/internal/domain/appointment"
)

type shopWindow struct {
	window ClockRange
	open   bool
}

// CachedProvider memoizes another provider for a positive TTL. Writers of
// windows or operating hours call Invalidate* so edits show up immediately
// on this instance.
type CachedProvider struct {
	next  WindowProvider
	cache *gocache.Cache
}

func NewCachedProvider(next WindowProvider, ttl time.Duration) *CachedProvider {
	return &CachedProvider{
		next:  next,
		cache: gocache.New(ttl, 2*ttl),
	}
}

func barberKey(barberID uint, day appointment.DayOfWeek) string {
	return fmt.Sprintf("barber:%d:%d", barberID, day)
}

func shopKey(barbershopID uint, day appointment.DayOfWeek) string {
	return fmt.Sprintf("shop:%d:%d", barbershopID, day)
}

func (p *CachedProvider) WindowsFor(
	ctx context.Context,
	barberID uint,
	day appointment.DayOfWeek,
) ([]ClockRange, error) {

	key := barberKey(barberID, day)
	if v, ok := p.cache.Get(key); ok {
		return v.([]ClockRange), nil
	}

	windows, err := p.next.WindowsFor(ctx, barberID, day)
	if err != nil {
		return nil, err
	}
	p.cache.Set(key, windows, gocache.DefaultExpiration)
	return windows, nil
}

func (p *CachedProvider) ShopWindowFor(
	ctx context.Context,
	barbershopID uint,
	day appointment.DayOfWeek,
) (ClockRange, bool, error) {

	key := shopKey(barbershopID, day)
	if v, ok := p.cache.Get(key); ok {
		sw := v.(shopWindow)
		return sw.window, sw.open, nil
	}

	window, open, err := p.next.ShopWindowFor(ctx, barbershopID, day)
	if err != nil {
		return ClockRange{}, false, err
	}
	p.cache.Set(key, shopWindow{window: window, open: open}, gocache.DefaultExpiration)
	return window, open, nil
}

func (p *CachedProvider) InvalidateBarber(barberID uint) {
	for d := appointment.Monday; d <= appointment.Sunday; d++ {
		p.cache.Delete(barberKey(barberID, d))
	}
}

func (p *CachedProvider) InvalidateShop(barbershopID uint) {
	for d := appointment.Monday; d <= appointment.Sunday; d++ {
		p.cache.Delete(shopKey(barbershopID, d))
	}
}

var _ WindowProvider = (*CachedProvider)(nil)
