package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"prompt-contest-backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterValidation(t *testing.T) {
	s := NewRegistrationService(repository.NewMemoryRepository(), 80)
	ctx := context.Background()

	tests := []struct {
		name, email, field string
	}{
		{"", "ada@example.com", "name"},
		{"  ", "ada@example.com", "name"},
		{"Ada", "", "email"},
		{"Ada", "ada", "email"},
		{"Ada", "ada@example", "email"},
		{"Ada", "ada@@example.com", "email"},
		{"Ada", "a da@example.com", "email"},
	}
	for _, tt := range tests {
		_, _, err := s.Register(ctx, tt.name, tt.email)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr, "name=%q email=%q", tt.name, tt.email)
		assert.Equal(t, tt.field, verr.Field)
	}

	count, err := s.Capacity(ctx)
	require.NoError(t, err)
	assert.Zero(t, count.Registered)
}

func TestRegisterIsIdempotent(t *testing.T) {
	repo := repository.NewMemoryRepository()
	s := NewRegistrationService(repo, 80)
	ctx := context.Background()

	first, created, err := s.Register(ctx, "Ada", "ada@example.com")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, uint(1), first.ID)

	again, created, err := s.Register(ctx, "Someone Else", " ADA@example.com ")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first, again)

	capacity, err := s.Capacity(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, capacity.Registered)

	current, err := repo.CurrentSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, first.ID, current.ID)
}

func TestRegisterSequentialIDs(t *testing.T) {
	s := NewRegistrationService(repository.NewMemoryRepository(), 80)
	ctx := context.Background()

	for i := 1; i <= 10; i++ {
		p, created, err := s.Register(ctx, fmt.Sprintf("P%d", i), fmt.Sprintf("p%d@example.com", i))
		require.NoError(t, err)
		require.True(t, created)
		assert.Equal(t, uint(i), p.ID)
	}

	capacity, err := s.Capacity(ctx)
	require.NoError(t, err)
	assert.Equal(t, Capacity{Registered: 10, Max: 80, Remaining: 70}, capacity)
}

func TestRegisterCapacity(t *testing.T) {
	repo := repository.NewMemoryRepository()
	s := NewRegistrationService(repo, 80)
	ctx := context.Background()

	for i := 1; i <= 80; i++ {
		_, _, err := s.Register(ctx, "P", fmt.Sprintf("p%d@example.com", i))
		require.NoError(t, err)
	}

	_, _, err := s.Register(ctx, "Late", "p81@example.com")
	var capErr *CapacityExceededError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, 80, capErr.Max)

	participants, err := repo.ListParticipants(ctx)
	require.NoError(t, err)
	assert.Len(t, participants, 80)

	// returning participants can still get in when the contest is full
	p, created, err := s.Register(ctx, "P", "p1@example.com")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, uint(1), p.ID)
}

func TestRegisterConcurrentCapacity(t *testing.T) {
	repo := repository.NewMemoryRepository()
	s := NewRegistrationService(repo, 25)
	ctx := context.Background()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		admitted int
		rejected int
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, err := s.Register(ctx, "P", fmt.Sprintf("p%d@example.com", i))
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				admitted++
			} else {
				rejected++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 25, admitted)
	assert.Equal(t, 75, rejected)

	count, err := repo.CountParticipants(ctx)
	require.NoError(t, err)
	assert.Equal(t, 25, count)
}
