package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFindIndex(t *testing.T) {
	require.Equal(t, 1, FindIndex([]string{"a", "b", "b"}, "b"), "Should find the first occurrence")
	require.Equal(t, -1, FindIndex([]int{1, 2}, 3), "Missing item should give -1")
	require.Equal(t, -1, FindIndex(nil, 0), "Empty slice should give -1")
}

func TestRemoveFirst(t *testing.T) {
	t.Run("present", func(t *testing.T) {
		got, ok := RemoveFirst([]int{1, 2, 3, 2}, 2)
		require.True(t, ok, "Item should be found")
		require.Equal(t, []int{1, 3, 2}, got, "Only the first occurrence should be removed")
	})

	t.Run("absent", func(t *testing.T) {
		got, ok := RemoveFirst([]int{1}, 5)
		require.False(t, ok, "Item should not be found")
		require.Equal(t, []int{1}, got, "Slice should be unchanged")
	})
}

func TestUnique(t *testing.T) {
	require.Equal(t, []int{3, 1, 2}, Unique([]int{3, 1, 3, 2, 1}), "Repeats should be dropped in order")
	require.Empty(t, Unique([]string(nil)), "Empty input should give an empty result")
}
