package sim

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServerPool_AllFreeAtStart(t *testing.T) {
	pool := NewServerPool(4, 1, rand.New(rand.NewSource(1)))
	assert.Equal(t, 4, pool.Size())
	assert.Equal(t, 0.0, pool.NextFree())
}

func TestServerPool_IdleServerStartsImmediately(t *testing.T) {
	pool := NewServerPool(2, 1, rand.New(rand.NewSource(1)))

	start, dep := pool.Assign(5)
	assert.Equal(t, 5.0, start)
	assert.Greater(t, dep, start)

	// Second server is still idle.
	start2, _ := pool.Assign(5.5)
	assert.Equal(t, 5.5, start2)
}

func TestServerPool_SingleServerQueuesFCFS(t *testing.T) {
	pool := NewServerPool(1, 1, rand.New(rand.NewSource(3)))

	_, dep1 := pool.Assign(0)
	start2, dep2 := pool.Assign(0)
	start3, _ := pool.Assign(0)

	assert.Equal(t, dep1, start2, "second customer starts when first departs")
	assert.Equal(t, dep2, start3, "third customer starts when second departs")
}

func TestServerPool_PicksEarliestAvailable(t *testing.T) {
	// GIVEN a pool whose service draws come from a known stream
	const mu = 0.5
	pool := NewServerPool(3, mu, rand.New(rand.NewSource(17)))
	twin := rand.New(rand.NewSource(17))

	// Shadow model: the naive sort-per-arrival pool.
	busy := []float64{0, 0, 0}
	arrivals := []float64{0, 0.1, 0.2, 0.3, 0.4, 2, 2.5, 3, 8, 8.1}

	for _, at := range arrivals {
		// WHEN both assign the same customer
		start, dep := pool.Assign(at)

		sort.Float64s(busy)
		wantStart := at
		if busy[0] > at {
			wantStart = busy[0]
		}
		wantDep := wantStart + twin.ExpFloat64()/mu
		busy[0] = wantDep

		// THEN the heap-backed pool agrees with the linear scan
		assert.Equal(t, wantStart, start)
		assert.Equal(t, wantDep, dep)
	}
}

func TestServerPool_NoServerServesTwoAtOnce(t *testing.T) {
	pool := NewServerPool(2, 0.3, rand.New(rand.NewSource(5)))
	gen := NewArrivalGenerator(1, 200, rand.New(rand.NewSource(6)))

	// Every busy interval handed out must fit into one of two non-overlapping lanes.
	var intervals [][2]float64
	for {
		at, ok := gen.Next()
		if !ok {
			break
		}
		start, dep := pool.Assign(at)
		assert.GreaterOrEqual(t, start, at)
		intervals = append(intervals, [2]float64{start, dep})
	}

	sort.Slice(intervals, func(i, j int) bool { return intervals[i][0] < intervals[j][0] })
	lanes := []float64{0, 0}
	for _, iv := range intervals {
		sort.Float64s(lanes)
		if iv[0] < lanes[0] {
			t.Fatalf("interval %v overlaps both servers (free at %v)", iv, lanes)
		}
		lanes[0] = iv[1]
	}
}
