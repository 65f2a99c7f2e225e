// Command stagehand-demo spawns a small actor tree and drives it through
// a few asks, exercising ActorOf/Ask/ActorSelection/GracefulStop end to
// end. Grounded on the teacher's own main.go texture: plain fmt.Println
// narration, no flags, explicit engine construction and shutdown.
package main

import (
	"fmt"
	"time"

	stagehand "github.com/lguibr/stagehand"
	"github.com/lguibr/stagehand/internal/demo"
)

func main() {
	sys := stagehand.NewSystem()
	fmt.Println("stagehand system created.")

	dispatcher := sys.ActorOf(demo.NewDispatcher(demo.NewEcho), "dispatcher")
	fmt.Printf("dispatcher spawned at %s\n", dispatcher.Address())

	for _, room := range []string{"room-1", "room-2", "room-1"} {
		ref, err := sys.Ask(dispatcher, stagehand.Action{
			Type:    "find_child",
			Payload: demo.FindChildRequest{Name: room},
		})
		if err != nil {
			fmt.Printf("find_child(%s) failed: %v\n", room, err)
			continue
		}
		child := ref.(*stagehand.PID)
		fmt.Printf("find_child(%s) -> %s\n", room, child.Address())

		value, err := sys.Ask(child, stagehand.Action{Type: "echo", Payload: room})
		if err != nil {
			fmt.Printf("echo ask failed: %v\n", err)
			continue
		}
		fmt.Printf("echo replied: %v\n", value)
	}

	found := sys.ActorSelection("/system/dispatcher/*")
	fmt.Printf("selection /system/dispatcher/* matched %d actor(s)\n", len(found))

	if errs := sys.GracefulStop(dispatcher); errs[0] != nil {
		fmt.Printf("graceful stop failed: %v\n", errs[0])
	} else {
		fmt.Println("dispatcher stopped gracefully.")
	}

	fmt.Println("shutting down system...")
	sys.Shutdown(5 * time.Second)
	fmt.Println("system shutdown complete.")
}
