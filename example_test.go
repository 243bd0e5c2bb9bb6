package logstate_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/logstate/pkg/controller"
	"github.com/aretw0/logstate/pkg/domain"
)

// Example walks the controller through a start, a restart on a new path and two stops.
func Example() {
	ctrl := controller.New()

	res, err := ctrl.Start("/var/log/a.log")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(res.Success, res.Message, res.PathValue())

	res, _ = ctrl.Start("/var/log/b.log")
	fmt.Println(res.PathValue(), res.PreviousPathValue())

	res, _ = ctrl.Stop()
	fmt.Println(res.Success, res.Message, res.Active)

	res, _ = ctrl.Stop()
	fmt.Println(res.Success, res.Message)

	rec, _ := ctrl.Diagnostics()
	fmt.Println("calls:", rec.CallCount)

	// Output:
	// true Logging started /var/log/a.log
	// /var/log/b.log /var/log/a.log
	// true Logging stopped false
	// false No logging was active
	// calls: 4
}

// Example_hooks shows how observers receive transition events.
func Example_hooks() {
	ctrl := controller.New(controller.WithHooks(domain.Hooks{
		OnTransition: func(_ context.Context, e *domain.TransitionEvent) {
			fmt.Printf("#%d %s changed=%t\n", e.Seq, e.Operation, e.Changed())
		},
	}))

	_, _ = ctrl.Start("/tmp/x.log")
	_, _ = ctrl.Start("/tmp/x.log")
	_, _ = ctrl.Status()

	// Output:
	// #1 start changed=true
	// #2 start changed=false
	// #3 status changed=false
}
