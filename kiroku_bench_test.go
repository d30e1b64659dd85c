package kiroku

import (
	"fmt"
	"testing"
)

type benchPos struct {
	X, Y float32
}

type benchVel struct {
	X, Y float32
}

var benchSizes = []int{1_000, 10_000, 100_000}

func benchWorld(size int) *World {
	ResetGlobalRegistry()
	RegisterComponent[benchPos]()
	RegisterComponent[benchVel]()
	w := NewWorld(size)
	for _, e := range w.CreateEntities(size) {
		SetComponent(w, e, benchPos{X: 1, Y: 2})
		SetComponent(w, e, benchVel{X: 3, Y: 4})
	}
	w.ClearTrackers()
	return w
}

// go test -benchmem -run=^$ -bench ^BenchmarkFilterIter$ .
func BenchmarkFilterIter(b *testing.B) {
	for _, size := range benchSizes {
		b.Run(fmt.Sprintf("%d", size), func(b *testing.B) {
			w := benchWorld(size)
			q := NewFilter[benchPos](w)
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				q.Reset()
				sum := float32(0)
				for q.Next() {
					sum += q.Get().X
				}
				_ = sum
			}
		})
	}
}

// go test -benchmem -run=^$ -bench ^BenchmarkFilterMutIter$ .
func BenchmarkFilterMutIter(b *testing.B) {
	for _, size := range benchSizes {
		b.Run(fmt.Sprintf("%d", size), func(b *testing.B) {
			w := benchWorld(size)
			q := NewFilterMut2[benchPos, benchVel](w)
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				q.Reset()
				for q.Next() {
					p, v := q.Get()
					p.X += v.X
				}
			}
		})
	}
}

// go test -benchmem -run=^$ -bench ^BenchmarkChangedIter$ .
func BenchmarkChangedIter(b *testing.B) {
	for _, size := range benchSizes {
		b.Run(fmt.Sprintf("%d", size), func(b *testing.B) {
			w := benchWorld(size)
			writer := NewFilterMut[benchPos](w)
			for writer.Next() {
				writer.Get().X += 1
			}
			q := NewChanged[benchPos](w)
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				q.Reset()
				n := 0
				for q.Next() {
					if q.Get() {
						n++
					}
				}
				if n != size {
					b.Fatalf("expected %d changed rows, got %d", size, n)
				}
			}
		})
	}
}

// go test -benchmem -run=^$ -bench ^BenchmarkClearTrackers$ .
func BenchmarkClearTrackers(b *testing.B) {
	for _, size := range benchSizes {
		b.Run(fmt.Sprintf("%d", size), func(b *testing.B) {
			w := benchWorld(size)
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				w.ClearTrackers()
			}
		})
	}
}

// go test -benchmem -run=^$ -bench ^BenchmarkAddRemoveComponent$ .
func BenchmarkAddRemoveComponent(b *testing.B) {
	ResetGlobalRegistry()
	RegisterComponent[benchPos]()
	RegisterComponent[benchVel]()
	w := NewWorld(1)
	e := w.CreateEntity()
	SetComponent(w, e, benchPos{})
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		AddComponent[benchVel](w, e)
		RemoveComponent[benchVel](w, e)
	}
}
