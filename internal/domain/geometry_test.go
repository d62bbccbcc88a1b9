package domain

import (
	"errors"
	"testing"
)

func TestRotateFourTimesIsIdentity(t *testing.T) {
	shapes := map[string]Shape{
		"single": MustParseShape("#"),
		"bar":    MustParseShape("#####"),
		"L":      MustParseShape("#.", "#.", "##"),
		"S":      MustParseShape(".##", "##."),
		"hollow": MustParseShape("###", "#.#", "###"),
		"T wide": MustParseShape("####", ".#..", ".#.."),
	}
	for name, s := range shapes {
		t.Run(name, func(t *testing.T) {
			got := s
			for i := 0; i < 4; i++ {
				got = got.Rotate()
			}
			if !got.Equal(s) {
				t.Fatalf("rotate x4 =\n%s\nwant\n%s", got, s)
			}
		})
	}
}

func TestRotateClockwise(t *testing.T) {
	tests := []struct {
		name string
		in   Shape
		want Shape
	}{
		{name: "L corner", in: MustParseShape("#.", "##"), want: MustParseShape("##", "#.")},
		{name: "S swaps dimensions", in: MustParseShape("##.", ".##"), want: MustParseShape(".#", "##", "#.")},
		{name: "bar stands up", in: MustParseShape("###"), want: MustParseShape("#", "#", "#")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Rotate()
			if !got.Equal(tt.want) {
				t.Fatalf("Rotate() =\n%s\nwant\n%s", got, tt.want)
			}
			if got.Width() != tt.in.Height() || got.Height() != tt.in.Width() {
				t.Fatalf("Rotate() is %dx%d, want %dx%d", got.Width(), got.Height(), tt.in.Height(), tt.in.Width())
			}
			if got.Area() != tt.in.Area() {
				t.Fatalf("Rotate() area = %d, want %d", got.Area(), tt.in.Area())
			}
		})
	}
}

func TestRotatedRange(t *testing.T) {
	s := MustParseShape("##", "#.")
	for steps := 0; steps <= MaxRotation; steps++ {
		if _, err := s.Rotated(steps); err != nil {
			t.Fatalf("Rotated(%d) error = %v", steps, err)
		}
	}
	for _, steps := range []int{-1, 4, 9} {
		if _, err := s.Rotated(steps); !errors.Is(err, ErrInvalidRotation) {
			t.Fatalf("Rotated(%d) error = %v, want ErrInvalidRotation", steps, err)
		}
	}
}

func TestParseShapeRejectsMalformed(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
	}{
		{name: "empty", lines: nil},
		{name: "empty row", lines: []string{""}},
		{name: "ragged", lines: []string{"##", "#"}},
		{name: "bad rune", lines: []string{"#x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseShape(tt.lines); !errors.Is(err, ErrMalformedPatch) {
				t.Fatalf("ParseShape(%q) error = %v, want ErrMalformedPatch", tt.lines, err)
			}
		})
	}
}

func TestCoordinatePredicates(t *testing.T) {
	c := Coordinate{Row: 8, Col: 0}
	if !c.IsLastRow(9) || c.IsFirstRow() || !c.IsStartOfRow() || !c.IsBorder(9, 9) {
		t.Fatalf("unexpected predicates for %s", c)
	}
	if got := c.Add(Coordinate{Row: -8, Col: 3}); got != (Coordinate{Row: 0, Col: 3}) {
		t.Fatalf("Add() = %s", got)
	}
	if (Coordinate{Row: 9, Col: 0}).InBounds(9, 9) {
		t.Fatal("row 9 should be out of a 9x9 grid")
	}
}
