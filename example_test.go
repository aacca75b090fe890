package breaker_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	breaker "github.com/mahmudsudo/circuit-breaker"
)

// ExampleNew demonstrates creating a circuit breaker.
func ExampleNew() {
	cb := breaker.New(3, 30*time.Second)

	err := cb.Do(context.Background(), func(ctx context.Context) error {
		return nil
	})

	fmt.Println("Error:", err)
	fmt.Println("State:", cb.State())

	// Output:
	// Error: <nil>
	// State: closed
}

// ExampleBreaker_Do demonstrates the circuit tripping open.
func ExampleBreaker_Do() {
	cb := breaker.New(2, 30*time.Second)

	attempts := 0
	for n := 0; n < 5; n++ {
		err := cb.Do(context.Background(), func(ctx context.Context) error {
			attempts++
			return errors.New("service unavailable")
		})
		if breaker.IsOpen(err) {
			fmt.Println("Circuit is open, skipping call")
		}
	}

	fmt.Println("Attempts:", attempts)
	fmt.Println("State:", cb.State())

	// Output:
	// Circuit is open, skipping call
	// Circuit is open, skipping call
	// Circuit is open, skipping call
	// Attempts: 2
	// State: open
}

// ExampleRun demonstrates the generic helper for returning values.
func ExampleRun() {
	cb := breaker.New(3, 30*time.Second)

	user, err := breaker.Run(context.Background(), cb, func(ctx context.Context) (string, error) {
		return "john_doe", nil
	})

	fmt.Println("User:", user)
	fmt.Println("Error:", err)

	// Output:
	// User: john_doe
	// Error: <nil>
}

// ExampleBreaker_SetOnOpen demonstrates transition callbacks.
func ExampleBreaker_SetOnOpen() {
	cb := breaker.New(1, 30*time.Second)

	cb.SetOnOpen(func() {
		fmt.Println("circuit opened")
	})

	_ = cb.Do(context.Background(), func(ctx context.Context) error {
		return errors.New("boom")
	})

	// Output:
	// circuit opened
}

// ExampleBreaker_HandleFailure demonstrates driving the breaker from an
// external call site.
func ExampleBreaker_HandleFailure() {
	cb := breaker.New(2, time.Minute)

	cb.HandleFailure()
	cb.HandleFailure()

	fmt.Println("State:", cb.State())
	fmt.Println("Allowed:", cb.Allow())

	// Output:
	// State: open
	// Allowed: false
}

// ExampleRegistry demonstrates one breaker per backend.
func ExampleRegistry() {
	reg := breaker.NewRegistry(1, time.Minute)

	reg.Get("users").HandleFailure()

	fmt.Println("users:", reg.Get("users").State())
	fmt.Println("orders:", reg.Get("orders").State())

	// Output:
	// users: open
	// orders: closed
}
