package ports

import (
	"math"
	"testing"
)

func TestPageRequest_Normalize(t *testing.T) {
	tests := []struct {
		in   PageRequest
		want PageRequest
	}{
		{PageRequest{}, PageRequest{Page: 1, Limit: DefaultPageLimit}},
		{PageRequest{Page: -3, Limit: 500}, PageRequest{Page: 1, Limit: MaxPageLimit}},
		{PageRequest{Page: 4, Limit: 10}, PageRequest{Page: 4, Limit: 10}},
		{PageRequest{Page: math.MaxInt64 / 10, Limit: 20}, PageRequest{Page: MaxPage, Limit: 20}},
	}
	for _, tc := range tests {
		if got := tc.in.Normalize(); got != tc.want {
			t.Fatalf("Normalize(%+v) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
}

func TestPageRequest_OffsetNeverNegative(t *testing.T) {
	tests := []struct {
		in   PageRequest
		want int64
	}{
		{PageRequest{Page: 1, Limit: 20}, 0},
		{PageRequest{Page: 3, Limit: 20}, 40},
		{PageRequest{Page: math.MaxInt64 / 10, Limit: 20}, int64(MaxPage-1) * 20},
		{PageRequest{Page: math.MaxInt, Limit: MaxPageLimit}, int64(MaxPage-1) * MaxPageLimit},
	}
	for _, tc := range tests {
		got := tc.in.Normalize().Offset()
		if got != tc.want || got < 0 {
			t.Fatalf("Offset(%+v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestNewPageResult(t *testing.T) {
	res := NewPageResult[string](nil, 41, PageRequest{Page: 2, Limit: 20})
	if res.TotalPages != 3 || res.Items == nil || res.Page != 2 {
		t.Fatalf("unexpected result: %+v", res)
	}
}
