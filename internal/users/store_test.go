package users

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeededStore(t *testing.T) {
	t.Parallel()
	s := NewSeededStore()

	got := s.List()
	require.Len(t, got, 2)
	assert.Equal(t, User{ID: 1, Name: "Alice", Email: "alice@example.com"}, got[0])
	assert.Equal(t, User{ID: 2, Name: "Bob", Email: "bob@example.com", Tags: []string{"tags", "active", "tester"}}, got[1])

	created := s.Insert("Carol", "carol@example.com", nil)
	assert.Equal(t, 3, created.ID)
}

func TestStoreInsertAssignsIncreasingIDs(t *testing.T) {
	t.Parallel()
	s := NewStore()

	prev := 0
	for i := 0; i < 10; i++ {
		u := s.Insert("n", "e", nil)
		assert.Greater(t, u.ID, prev)
		prev = u.ID
	}
}

func TestStoreIDsNotReusedAfterDelete(t *testing.T) {
	t.Parallel()
	s := NewStore()

	a := s.Insert("a", "a@x", nil)
	b := s.Insert("b", "b@x", nil)
	_, ok := s.Delete(b.ID)
	require.True(t, ok)

	c := s.Insert("c", "c@x", nil)
	assert.Greater(t, c.ID, b.ID)
	assert.NotEqual(t, a.ID, c.ID)
}

func TestStoreGet(t *testing.T) {
	t.Parallel()
	s := NewStore()
	u := s.Insert("Alice", "alice@example.com", nil)

	got, ok := s.Get(u.ID)
	require.True(t, ok)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, "alice@example.com", got.Email)

	_, ok = s.Get(99)
	assert.False(t, ok)
}

func TestStoreReplace(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		newName   string
		newEmail  string
		wantName  string
		wantEmail string
	}{
		{"both fields", "Bobby", "bobby@example.com", "Bobby", "bobby@example.com"},
		{"name only", "Bobby", "", "Bobby", "bob@example.com"},
		{"email only", "", "bobby@example.com", "Bob", "bobby@example.com"},
		{"neither", "", "", "Bob", "bob@example.com"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := NewSeededStore()

			got, ok := s.Replace(2, tt.newName, tt.newEmail)
			require.True(t, ok)
			assert.Equal(t, User{ID: 2, Name: tt.wantName, Email: tt.wantEmail}, got)

			stored, _ := s.Get(2)
			assert.Equal(t, got, stored)
			assert.Nil(t, stored.Tags, "replace drops tags")
		})
	}
}

func TestStoreReplaceMissing(t *testing.T) {
	t.Parallel()
	s := NewSeededStore()

	_, ok := s.Replace(42, "x", "y")
	assert.False(t, ok)
	assert.Equal(t, 2, s.Len())
}

func TestStoreDelete(t *testing.T) {
	t.Parallel()
	s := NewSeededStore()
	s.Insert("Carol", "carol@example.com", nil)

	removed, ok := s.Delete(2)
	require.True(t, ok)
	assert.Equal(t, "Bob", removed.Name)
	assert.Equal(t, []string{"tags", "active", "tester"}, removed.Tags)

	_, ok = s.Get(2)
	assert.False(t, ok)

	ids := []int{}
	for _, u := range s.List() {
		ids = append(ids, u.ID)
	}
	assert.Equal(t, []int{1, 3}, ids)

	_, ok = s.Delete(2)
	assert.False(t, ok, "second delete reports not found")
}

func TestStoreListPreservesInsertionOrder(t *testing.T) {
	t.Parallel()
	s := NewStore()

	for _, n := range []string{"a", "b", "c", "d", "e"} {
		s.Insert(n, n+"@x", nil)
	}
	s.Delete(2)
	s.Delete(4)

	var names []string
	for _, u := range s.List() {
		names = append(names, u.Name)
	}
	assert.Equal(t, []string{"a", "c", "e"}, names)
}

func TestStoreReturnsCopies(t *testing.T) {
	t.Parallel()
	s := NewSeededStore()

	bob, _ := s.Get(2)
	bob.Name = "Mallory"
	bob.Tags[0] = "mutated"

	again, _ := s.Get(2)
	assert.Equal(t, "Bob", again.Name)
	assert.Equal(t, "tags", again.Tags[0])

	list := s.List()
	list[0].Email = "changed"
	first, _ := s.Get(1)
	assert.Equal(t, "alice@example.com", first.Email)
}

func TestStoreConcurrentInsert(t *testing.T) {
	t.Parallel()
	s := NewStore()

	const n = 100
	var wg sync.WaitGroup
	ids := make(chan int, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- s.Insert("u", "u@x", nil).ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int]bool, n)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
	assert.Equal(t, n, s.Len())
}

func TestStoreOnChange(t *testing.T) {
	t.Parallel()
	s := NewSeededStore()

	type change struct {
		kind ChangeKind
		user User
	}
	var got []change
	s.OnChange(func(kind ChangeKind, u User) {
		got = append(got, change{kind, u})
	})

	created := s.Insert("Carol", "carol@example.com", nil)
	updated, ok := s.Replace(2, "Robert", "")
	require.True(t, ok)
	removed, ok := s.Delete(1)
	require.True(t, ok)

	_, ok = s.Replace(99, "x", "y")
	assert.False(t, ok)
	_, ok = s.Delete(99)
	assert.False(t, ok)

	assert.Equal(t, []change{
		{ChangeCreated, created},
		{ChangeUpdated, updated},
		{ChangeDeleted, removed},
	}, got)
}

func TestStoreOnChangeReceivesCopies(t *testing.T) {
	t.Parallel()
	s := NewStore()
	s.OnChange(func(_ ChangeKind, u User) {
		u.Tags[0] = "mutated"
	})

	s.Insert("a", "a@x", []string{"keep"})

	got, _ := s.Get(1)
	assert.Equal(t, []string{"keep"}, got.Tags)
}

func TestStoreConcurrentReplaceNotifiesInCommitOrder(t *testing.T) {
	t.Parallel()
	s := NewSeededStore()

	// Appending without a lock of our own is safe because hooks run
	// under the store's write lock.
	var last []User
	s.OnChange(func(_ ChangeKind, u User) {
		last = append(last, u)
	})

	const n = 200
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Replace(1, fmt.Sprintf("name-%d", i), "")
		}()
	}
	wg.Wait()

	require.Len(t, last, n)
	final, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, final, last[n-1])
}

func TestParseID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw    string
		want   int
		wantOK bool
	}{
		{"1", 1, true},
		{" 2 ", 2, true},
		{"3.0", 3, true},
		{"1e1", 10, true},
		{"-4", -4, true},
		{"1.5", 0, false},
		{"abc", 0, false},
		{"", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
		{"1e40", 0, false},
		{"0x3", 3, true},
		{"0X1f", 31, true},
		{"0o7", 7, true},
		{"0b11", 3, true},
		{" 0x2 ", 2, true},
		{"0x", 0, false},
		{"0xg", 0, false},
		{"0b2", 0, false},
		{"-0x1", 0, false},
		{"0x1p0", 0, false},
		{"0x80000000", 0, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseID(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
