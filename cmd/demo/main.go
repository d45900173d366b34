// Command demo builds a small traffic-light Graph, drives it with a Runtime
// under a timer, and prints the Path Enumerator's derived test cases
// alongside the live transition log.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	sp "github.com/comalice/stateproof"
)

type trafficState string

func (s trafficState) VariantName() string { return string(s) }

type trafficEvent string

func (e trafficEvent) VariantName() string { return string(e) }

func buildTrafficLight() *sp.Graph {
	b := sp.NewBuilder()
	b.Initial(trafficState("Red"))
	b.State(sp.AnyOf(trafficState("Red")), trafficState("Red")).
		On(sp.AnyOf(trafficEvent("Timer"))).TransitionTo(trafficState("Green"))
	b.State(sp.AnyOf(trafficState("Green")), trafficState("Green")).
		On(sp.AnyOf(trafficEvent("Timer"))).TransitionTo(trafficState("Yellow"))
	b.State(sp.AnyOf(trafficState("Yellow")), trafficState("Yellow")).
		On(sp.AnyOf(trafficEvent("Timer"))).TransitionTo(trafficState("Red"))

	g, err := b.Build()
	if err != nil {
		panic(err)
	}
	return g
}

func main() {
	g := buildTrafficLight()

	cases := sp.Enumerate(g, sp.TestGenConfig{MaxVisitsPerState: 2, HashAlgorithm: sp.CRC32})
	fmt.Printf("derived %d test cases from the graph:\n", len(cases))
	for _, tc := range cases {
		fmt.Printf("  %s -> %v\n", tc.Name, tc.ExpectedTransitions)
	}

	rt := sp.NewRuntime(g)
	defer rt.Close()

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	cycles := 0
	for {
		select {
		case <-ticker.C:
			if err := rt.OnEvent(trafficEvent("Timer")); err != nil {
				fmt.Printf("OnEvent error: %v\n", err)
				continue
			}
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			if err := rt.AwaitIdle(ctx); err != nil {
				fmt.Printf("AwaitIdle error: %v\n", err)
			}
			cancel()
			cycles++
			fmt.Printf("\n--- Cycle %d ---\n", cycles)
			fmt.Println("Current state:", sp.NameOf(rt.CurrentState()))
			fmt.Println("Transition log:", rt.TransitionLog())
		case <-sig:
			fmt.Println("shutting down")
			return
		}
	}
}
