package registry

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrySnapshotIsCopy(t *testing.T) {
	r := New("sshd", "cron")

	snap := r.Get()
	snap[0] = "mutated"

	assert.Equal(t, []string{"sshd", "cron"}, r.Get())
	assert.Equal(t, 2, r.Len())
}

func TestRegistryReplaceReturnsPrevious(t *testing.T) {
	r := New(AllServices)
	require.True(t, r.HasSentinel())

	prev := r.Replace([]string{"a", "b", "c"})

	assert.Equal(t, []string{AllServices}, prev)
	assert.Equal(t, []string{"a", "b", "c"}, r.Get())
	assert.False(t, r.HasSentinel())
}

func TestRegistrySetCopiesInput(t *testing.T) {
	in := []string{"x"}
	r := New()
	r.Set(in)
	in[0] = "y"

	assert.Equal(t, []string{"x"}, r.Get())
}

func TestRegistryZeroValue(t *testing.T) {
	var r Registry
	assert.Empty(t, r.Get())
	assert.False(t, r.HasSentinel())
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := New("a")
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			r.Replace([]string{"a", "b"})
		}()
		go func() {
			defer wg.Done()
			_ = r.Get()
			_ = r.HasSentinel()
		}()
	}
	wg.Wait()
	assert.Equal(t, []string{"a", "b"}, r.Get())
}

func TestWithout(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, Without([]string{AllServices, "a", AllServices, "b"}, AllServices))
	assert.Empty(t, Without(nil, AllServices))
}

func TestParseInput(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"single", "sshd", []string{"sshd"}},
		{"trimmed list", " sshd ,  cron,nginx ", []string{"sshd", "cron", "nginx"}},
		{"empty tokens", ",, sshd,,", []string{"sshd"}},
		{"duplicates keep first", "b, a, b", []string{"b", "a"}},
		{"sentinel any case", ":ALL_Services", []string{AllServices}},
		{"sentinel mixed", "sshd, :all_services", []string{"sshd", AllServices}},
		{"blank", "   ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseInput(tt.line))
		})
	}
}
