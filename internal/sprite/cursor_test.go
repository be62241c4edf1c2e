package sprite

import (
	"errors"
	"testing"
)

func TestCursorCycle(t *testing.T) {
	for _, n := range []int{1, 2, 3, 7} {
		var c Cursor
		for k := 0; k < 3*n+2; k++ {
			got, err := c.Next(n)
			if err != nil {
				t.Fatalf("Next(%d) error: %v", n, err)
			}
			if got != k%n {
				t.Errorf("n=%d call %d: Next() = %d, expected %d", n, k, got, k%n)
			}
		}
	}
}

func TestCursorFirstCallIsZero(t *testing.T) {
	var c Cursor
	got, err := c.Next(4)
	if err != nil || got != 0 {
		t.Errorf("first Next(4) = (%d, %v), expected (0, nil)", got, err)
	}
	if c.Index() != 1 {
		t.Errorf("Index() after one call = %d, expected 1", c.Index())
	}
}

func TestCursorEmptyAnimation(t *testing.T) {
	var c Cursor
	c.Next(3)

	for _, n := range []int{0, -1} {
		if _, err := c.Next(n); !errors.Is(err, ErrEmptyAnimation) {
			t.Errorf("Next(%d) error = %v, expected ErrEmptyAnimation", n, err)
		}
	}
	if c.Index() != 1 {
		t.Errorf("failed Next should not move the cursor, Index() = %d", c.Index())
	}
}

func TestCursorShorterAnimation(t *testing.T) {
	var c Cursor
	for i := 0; i < 4; i++ {
		c.Next(5)
	}
	// Stored index 4 is out of range for two frames; it is reduced first.
	got, _ := c.Next(2)
	if got != 0 {
		t.Errorf("Next(2) after four steps of five = %d, expected 0", got)
	}
}

func TestCursorReset(t *testing.T) {
	var c Cursor
	c.Next(3)
	c.Next(3)
	c.Reset()
	if got, _ := c.Next(3); got != 0 {
		t.Errorf("Next after Reset = %d, expected 0", got)
	}
}

func TestCursorPeekDoesNotStep(t *testing.T) {
	var c Cursor
	c.Next(3)

	for i := 0; i < 2; i++ {
		if got, err := c.Peek(3); err != nil || got != 1 {
			t.Errorf("Peek(3) = (%d, %v), expected (1, nil)", got, err)
		}
	}
	if got, _ := c.Next(3); got != 1 {
		t.Errorf("Next(3) after Peek = %d, expected 1", got)
	}
	if _, err := c.Peek(0); !errors.Is(err, ErrEmptyAnimation) {
		t.Errorf("Peek(0) error = %v, expected ErrEmptyAnimation", err)
	}
}
