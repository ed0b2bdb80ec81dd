package query

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() Request {
	return Request{
		DataGroup:   GroupCPI,
		StartYear:   2020,
		EndYear:     2030,
		Location:    "Tanzania",
		Aggregation: Monthly,
	}
}

func TestValidateAccepts(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Request)
	}{
		{"minimal monthly", func(*Request) {}},
		{"bop group", func(r *Request) { r.DataGroup = GroupBOP }},
		{"single year", func(r *Request) { r.StartYear, r.EndYear = 2021, 2021 }},
		{"month filter", func(r *Request) { r.StartMonth, r.EndMonth = 1, 6 }},
		{"single month", func(r *Request) { r.StartMonth, r.EndMonth = 3, 3 }},
		{"quarterly", func(r *Request) { r.Aggregation = Quarterly }},
		{"annual", func(r *Request) { r.Aggregation = Annual }},
		{"fiscal without months", func(r *Request) { r.Aggregation = FiscalYear }},
		{"filters", func(r *Request) {
			r.IndicatorNames = []string{"Energy Index"}
			r.UnitNames = []string{"Index"}
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := validRequest()
			tc.mutate(&r)
			assert.NoError(t, Validate(r))
		})
	}
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name      string
		mutate    func(*Request)
		wantField string
	}{
		{"unknown data group", func(r *Request) { r.DataGroup = "GDP" }, "dataGroup"},
		{"empty data group", func(r *Request) { r.DataGroup = "" }, "dataGroup"},
		{"inverted years", func(r *Request) { r.StartYear, r.EndYear = 2030, 2020 }, "startYear"},
		{"unknown aggregation", func(r *Request) { r.Aggregation = "weekly" }, "aggregation"},
		{"start month alone", func(r *Request) { r.StartMonth = 3 }, "startMonth"},
		{"end month alone", func(r *Request) { r.EndMonth = 9 }, "startMonth"},
		{"start month zero range", func(r *Request) { r.StartMonth, r.EndMonth = 0, 0 }, ""},
		{"start month too large", func(r *Request) { r.StartMonth, r.EndMonth = 13, 13 }, "startMonth"},
		{"end month too large", func(r *Request) { r.StartMonth, r.EndMonth = 1, 13 }, "endMonth"},
		{"inverted months", func(r *Request) { r.StartMonth, r.EndMonth = 9, 3 }, "startMonth"},
		{"months with fiscal year", func(r *Request) {
			r.Aggregation = FiscalYear
			r.StartMonth, r.EndMonth = 1, 6
		}, "startMonth"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := validRequest()
			tc.mutate(&r)
			err := Validate(r)
			if tc.wantField == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var ia *InvalidArgumentError
			require.ErrorAs(t, err, &ia)
			assert.Equal(t, tc.wantField, ia.Field)
			assert.True(t, IsInvalidArgument(err))
		})
	}
}

func TestIsInvalidArgumentUnwraps(t *testing.T) {
	base := invalidf("location", "test")
	wrapped := fmt.Errorf("loading request: %w", base)

	assert.True(t, IsInvalidArgument(wrapped))
	assert.False(t, IsInvalidArgument(errors.New("plain")))
	assert.False(t, IsInvalidArgument(nil))
}

func TestHasMonthFilter(t *testing.T) {
	assert.False(t, Request{}.HasMonthFilter())
	assert.False(t, Request{StartMonth: 1}.HasMonthFilter())
	assert.False(t, Request{EndMonth: 12}.HasMonthFilter())
	assert.True(t, Request{StartMonth: 1, EndMonth: 12}.HasMonthFilter())
}
