// Profiling:
// go build ./profile/trackers
// go tool pprof -http=":8000" -nodefraction=0.001 ./trackers mem.pprof

package main

import (
	"github.com/edwinsyarief/kiroku"
	"github.com/pkg/profile"
)

type comp1 struct {
	V int64
	W int64
}

type comp2 struct {
	V int64
	W int64
}

func main() {
	count := 50
	iters := 1000
	entities := 1000
	p := profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	run(count, iters, entities)
	p.Stop()
}

func run(rounds, iters, numEntities int) {
	for i := 0; i < rounds; i++ {
		kiroku.ResetGlobalRegistry()
		kiroku.RegisterComponent[comp1]()
		kiroku.RegisterComponent[comp2]()
		w := kiroku.NewWorld(numEntities)

		for _, e := range w.CreateEntities(numEntities) {
			kiroku.SetComponent(w, e, comp1{V: 1})
			kiroku.SetComponent(w, e, comp2{V: 2})
		}

		writer := kiroku.NewFilterMut2[comp1, comp2](w)
		changed := kiroku.NewChanged[comp1](w)

		for j := 0; j < iters; j++ {
			writer.Reset()
			for writer.Next() {
				c1, c2 := writer.Get()
				c1.V += c2.V
			}
			total := int64(0)
			changed.Reset()
			for changed.Next() {
				if changed.Get() {
					total += changed.Value().V
				}
			}
			_ = total
			w.ClearTrackers()
		}
	}
}
