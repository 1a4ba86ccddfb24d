package sim

import (
	"container/heap"
	"math"
	"math/rand"
)

// server is one heap slot: a server's index and the time it becomes free.
type server struct {
	id        int
	busyUntil float64
}

// serverHeap implements heap.Interface with deterministic ordering.
// Order by: busyUntil → server id
type serverHeap []server

func (h serverHeap) Len() int { return len(h) }

func (h serverHeap) Less(i, j int) bool {
	if h[i].busyUntil != h[j].busyUntil {
		return h[i].busyUntil < h[j].busyUntil
	}
	return h[i].id < h[j].id
}

func (h serverHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *serverHeap) Push(x any) {
	*h = append(*h, x.(server))
}

func (h *serverHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[0 : n-1]
	return item
}

// ServerPool tracks when each of s identical servers becomes free and hands
// every arrival to the earliest-available one. This is equivalent to a single
// FCFS queue in front of s servers.
//
// Thread-safety: NOT thread-safe. Each replica allocates its own pool.
type ServerPool struct {
	servers serverHeap
	service ExponentialSampler
	rng     *rand.Rand
}

// NewServerPool creates a pool of count servers, all free at time 0.
// Service durations are drawn at serviceRate from rng.
func NewServerPool(count int, serviceRate float64, rng *rand.Rand) *ServerPool {
	servers := make(serverHeap, count)
	for i := range servers {
		servers[i] = server{id: i}
	}
	heap.Init(&servers)
	return &ServerPool{
		servers: servers,
		service: NewExponentialSampler(serviceRate),
		rng:     rng,
	}
}

// Size returns the number of servers in the pool.
func (p *ServerPool) Size() int {
	return len(p.servers)
}

// NextFree returns the earliest busy-until time across the pool.
func (p *ServerPool) NextFree() float64 {
	return p.servers[0].busyUntil
}

// Assign serves a customer arriving at arrival on the earliest-available
// server and returns when service starts and when the customer departs.
func (p *ServerPool) Assign(arrival float64) (start, departure float64) {
	s := &p.servers[0]
	start = math.Max(arrival, s.busyUntil)
	departure = start + p.service.Sample(p.rng)
	s.busyUntil = departure
	heap.Fix(&p.servers, 0)
	return start, departure
}
