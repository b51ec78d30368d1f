package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeProviderMonotonic(t *testing.T) {
	p := NewTimeProvider()
	t1 := p.Now()
	time.Sleep(5 * time.Millisecond)
	t2 := p.Now()
	assert.True(t, t2.After(t1))
	assert.GreaterOrEqual(t, t2.Sub(t1), 5*time.Millisecond)
}
