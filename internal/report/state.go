package report

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"psicocitas-web/internal/models"
)

// DateFilterState applies the date filter controls. Typing a day window
// clears any year/month selection, and picking a year or month clears the
// day window, so the two kinds never coexist.
type DateFilterState struct {
	DateFilter
}

// SetDays sets the rolling window from free text; non-digits are dropped and
// an empty value removes the window.
func (s *DateFilterState) SetDays(input string) {
	digits := models.DigitsOnly(input)
	n, _ := strconv.Atoi(digits)
	s.Days = n
	if n > 0 {
		s.Years = nil
		s.Months = nil
	}
}

// ToggleYear adds or removes year from the selection.
func (s *DateFilterState) ToggleYear(year int) {
	if containsInt(s.Years, year) {
		s.Years = removeInt(s.Years, year)
	} else {
		s.Years = append(s.Years, year)
	}
	s.afterToggle()
}

// ToggleMonth adds or removes m from the selection.
func (s *DateFilterState) ToggleMonth(m time.Month) {
	if containsMonth(s.Months, m) {
		out := s.Months[:0:0]
		for _, x := range s.Months {
			if x != m {
				out = append(out, x)
			}
		}
		s.Months = out
	} else {
		s.Months = append(s.Months, m)
	}
	s.afterToggle()
}

func (s *DateFilterState) afterToggle() {
	if len(s.Years) > 0 || len(s.Months) > 0 {
		s.Days = 0
	}
}

// Clear resets the date filter to none.
func (s *DateFilterState) Clear() {
	s.DateFilter = DateFilter{}
}

// Action is one change to the date filter controls.
type Action struct {
	Type  string `json:"type" binding:"required,oneof=dias anio mes limpiar"`
	Value string `json:"value"`
}

// Apply performs action on the state.
func (s *DateFilterState) Apply(action Action) error {
	switch action.Type {
	case "dias":
		s.SetDays(action.Value)
	case "anio":
		years, err := ParseYears([]string{action.Value})
		if err != nil {
			return err
		}
		s.ToggleYear(years[0])
	case "mes":
		months, err := ParseMonths([]string{action.Value})
		if err != nil {
			return err
		}
		s.ToggleMonth(months[0])
	case "limpiar":
		s.Clear()
	default:
		return fmt.Errorf("report: unknown date filter action %q", action.Type)
	}
	return nil
}

func removeInt(list []int, v int) []int {
	out := list[:0:0]
	for _, x := range list {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}

// Years lists the distinct calendar years of citas, newest first.
func Years(citas []models.Cita) []int {
	seen := make(map[int]bool)
	years := []int{}
	for i := range citas {
		day, ok := citas[i].Day()
		if !ok || seen[day.Year()] {
			continue
		}
		seen[day.Year()] = true
		years = append(years, day.Year())
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}
