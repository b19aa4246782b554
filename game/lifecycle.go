package game

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/wishtree/components"
	"github.com/pthm-cable/wishtree/systems"
	"github.com/pthm-cable/wishtree/telemetry"
)

// SubmitWish launches a wish carrying text. Blank text is ignored. Returns
// the new wish id.
func (g *Game) SubmitWish(text string) (uint64, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, false
	}
	text = truncate(text, g.cfg.Wish.MaxTextLength)

	id := g.nextWishID
	g.nextWishID++

	sys := systems.NewWish(id, g.cfg.Wish, g.wishPalette, g.rng, g.onWishArrived)
	wish := components.Wish{ID: id, Text: text, LaunchTick: g.tick}
	proj := components.Projectile{Sys: sys}
	ret := components.Retirement{}
	g.wishMapper.NewEntity(&wish, &proj, &ret)
	g.activeWish++

	g.lifetimeTracker.Register(id, g.tick, g.simTime, utf8.RuneCountInString(text))
	g.collector.RecordLaunch()
	g.recordEvent(telemetry.NewWishLaunchedEvent(g.tick, g.simTime, id, text))
	g.sound.PlayLaunch()

	return id, true
}

// truncate limits s to max runes. max <= 0 means no limit.
func truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

// autoSubmit launches the periodic wishes requested by Options.WishEvery.
func (g *Game) autoSubmit() {
	if g.opts.WishEvery <= 0 || g.simTime < g.nextAuto {
		return
	}
	g.nextAuto += g.opts.WishEvery
	g.autoCount++
	g.SubmitWish(fmt.Sprintf("wish #%d", g.autoCount))
}

// onWishArrived runs once per wish, from inside its Update.
func (g *Game) onWishArrived(id uint64) {
	g.pulseToken++

	g.lifetimeTracker.RecordArrival(id, g.tick, g.simTime)
	var flight float64
	if lt := g.lifetimeTracker.Get(id); lt != nil {
		flight = lt.FlightSeconds()
	}
	g.collector.RecordArrival(flight)
	g.recordEvent(telemetry.NewWishArrivedEvent(g.tick, g.simTime, id, flight))
	g.sound.PlayArrival()
}

// updateWishes advances every wish and arms retirement once it has landed.
// The delay is the wish's own dissolve ceiling, not the live config.
func (g *Game) updateWishes(t, dt float64) {
	query := g.wishFilter.Query()
	for query.Next() {
		_, proj, ret := query.Get()
		proj.Sys.Update(t, dt)
		if !ret.Armed && proj.Sys.Phase() != systems.WishFlight {
			ret.Armed = true
			ret.Remaining = proj.Sys.DissolveSeconds()
		}
	}
}

// retireWishes removes wishes whose retirement delay has elapsed.
func (g *Game) retireWishes(dt float64) {
	// First pass: collect (the world is locked while a query is open)
	type retiredInfo struct {
		entity ecs.Entity
		id     uint64
	}
	var toRemove []retiredInfo

	query := g.wishFilter.Query()
	for query.Next() {
		wish, _, ret := query.Get()
		if ret.Tick(dt) {
			toRemove = append(toRemove, retiredInfo{entity: query.Entity(), id: wish.ID})
		}
	}

	// Second pass: remove
	for _, r := range toRemove {
		var lifetime float64
		if lt := g.lifetimeTracker.Remove(r.id); lt != nil {
			lifetime = lt.Age(g.simTime)
		}
		g.wishMapper.Remove(r.entity)
		g.activeWish--
		g.collector.RecordRetire()
		g.recordEvent(telemetry.NewWishRetiredEvent(g.tick, g.simTime, r.id, lifetime))
	}
	if len(toRemove) > 0 && g.logStats {
		slog.Debug("wishes retired", "count", len(toRemove), "active", g.activeWish)
	}
}

// Wishes returns the live wish systems.
func (g *Game) Wishes() []*systems.Wish {
	out := make([]*systems.Wish, 0, g.activeWish)
	query := g.wishFilter.Query()
	for query.Next() {
		_, proj, _ := query.Get()
		out = append(out, proj.Sys)
	}
	return out
}

// WishText returns the text of a live wish.
func (g *Game) WishText(id uint64) (string, bool) {
	query := g.wishFilter.Query()
	for query.Next() {
		wish, _, _ := query.Get()
		if wish.ID == id {
			query.Close()
			return wish.Text, true
		}
	}
	return "", false
}
