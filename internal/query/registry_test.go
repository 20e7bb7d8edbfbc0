package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistrySharedTagKeepsEveryRegistration(t *testing.T) {
	reg := NewRegistry()
	var a, b int

	reg.Subscribe("water_logs", func() { a++ })
	reg.Subscribe("water_logs", func() { b++ })

	reg.Invalidate("water_logs")
	reg.Invalidate("water_logs")

	assert.Equal(t, 2, a)
	assert.Equal(t, 2, b)
	assert.Equal(t, 2, reg.Len("water_logs"))
}

func TestRegistryReplaceOnlyAffectsOwnSlot(t *testing.T) {
	reg := NewRegistry()
	var first, second, other int

	sub := reg.Subscribe("food_logs", func() { first++ })
	reg.Subscribe("food_logs", func() { other++ })
	sub.Replace(func() { second++ })

	reg.Invalidate("food_logs")

	assert.Equal(t, 0, first)
	assert.Equal(t, 1, second)
	assert.Equal(t, 1, other)
}

func TestRegistryUnsubscribe(t *testing.T) {
	reg := NewRegistry()
	calls := 0
	sub := reg.Subscribe("sleep_logs", func() { calls++ })

	sub.Unsubscribe()
	sub.Unsubscribe()
	reg.Invalidate("sleep_logs")

	assert.Equal(t, 0, calls)
	assert.Equal(t, 0, reg.Len("sleep_logs"))

	// Replacing a dead registration must not resurrect it.
	sub.Replace(func() { calls++ })
	reg.Invalidate("sleep_logs")
	assert.Equal(t, 0, calls)
}

func TestRegistryInvalidateMultipleTags(t *testing.T) {
	reg := NewRegistry()
	var order []string

	reg.Subscribe("a", func() { order = append(order, "a1") })
	reg.Subscribe("b", func() { order = append(order, "b1") })
	reg.Subscribe("a", func() { order = append(order, "a2") })
	reg.Subscribe("c", func() { order = append(order, "c1") })

	reg.Invalidate("a", "b", "missing")

	assert.Equal(t, []string{"a1", "a2", "b1"}, order)
}

func TestRegistryCallbackMayUnsubscribe(t *testing.T) {
	reg := NewRegistry()
	calls := 0
	var sub *Subscription
	sub = reg.Subscribe("x", func() {
		calls++
		sub.Unsubscribe()
	})

	reg.Invalidate("x")
	reg.Invalidate("x")

	assert.Equal(t, 1, calls)
}
