package replay

import (
	"fmt"
	"time"

	"github.com/vovakirdan/tui-combo/internal/combo"
	"github.com/vovakirdan/tui-combo/internal/core"
)

// Detection is a move recognized during a run.
type Detection struct {
	Tick   uint64
	At     time.Duration
	Player core.PlayerID
	Move   combo.Move
}

// heldState is the device source for a run: whatever each player's most
// recent step set.
type heldState []core.DeviceState

func (h heldState) DeviceState(id core.PlayerID) core.DeviceState {
	i := id.Index()
	if i < 0 || i >= len(h) {
		return core.DeviceState{}
	}
	return h[i]
}

// Run plays the script through a fresh engine. The player count comes from
// the script; capacity and timing come from cfg. The run continues one
// expiry window past the last step so trailing input can still resolve.
func Run(s Script, moves *combo.MoveList, cfg combo.Config, opts ...combo.Option) ([]Detection, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	cfg.Players = s.Players
	held := make(heldState, s.Players)
	engine, err := combo.NewEngine(cfg, moves, held, opts...)
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}

	interval := s.TickInterval()
	end := s.End() + cfg.Timing.Expiry + interval

	var detections []Detection
	next := 0
	for tick := uint64(0); ; tick++ {
		now := time.Duration(tick) * interval
		if now > end {
			break
		}

		// Apply every step that has come due
		for next < len(s.Steps) && s.Steps[next].At <= now {
			st := s.Steps[next]
			state, _ := st.State() // validated above
			held[st.Player-1] = state
			next++
		}

		engine.Update(now)
		for i := 0; i < engine.Players(); i++ {
			id := core.PlayerFromIndex(i)
			if m, ok := engine.DetectNew(id); ok {
				detections = append(detections, Detection{
					Tick:   tick,
					At:     now,
					Player: id,
					Move:   m,
				})
			}
		}
	}

	return detections, nil
}

// Count tallies detections by move name.
func Count(detections []Detection) map[string]int {
	counts := make(map[string]int)
	for _, d := range detections {
		counts[d.Move.Name()]++
	}
	return counts
}
