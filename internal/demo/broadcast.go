package demo

import (
	stagehand "github.com/lguibr/stagehand"
	"golang.org/x/sync/errgroup"
)

// Broadcast asks every ref in refs the same action concurrently and
// joins the results, grounded on game/broadcaster_actor.go's
// broadcastUpdates (iterate over a collection of destinations, send to
// each, collect per-destination failures) reimagined with
// golang.org/x/sync/errgroup in place of its hand-rolled
// disconnectedClients accumulation. Waits for every ask to finish, then
// returns the first error encountered (errgroup.Group without a context
// does not cancel the other asks).
func Broadcast(sys *stagehand.System, refs []*stagehand.PID, action stagehand.Action) ([]interface{}, error) {
	results := make([]interface{}, len(refs))
	var g errgroup.Group
	for i, ref := range refs {
		i, ref := i, ref
		g.Go(func() error {
			value, err := sys.Ask(ref, action)
			if err != nil {
				return err
			}
			results[i] = value
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
