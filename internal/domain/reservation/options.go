package reservation

import (
	"fmt"
	"time"
)

// TimeOptions lists bookable slots every 30 minutes from 11:00 through 22:00.
func TimeOptions() []string {
	var out []string
	for h := FirstHour; h <= LastHour; h++ {
		for m := 0; m < 60; m += 30 {
			if h == LastHour && m > 0 {
				break
			}
			out = append(out, fmt.Sprintf("%02d:%02d", h, m))
		}
	}
	return out
}

func GuestOptions() []int {
	out := make([]int, 0, MaxGuests-MinGuests+1)
	for n := MinGuests; n <= MaxGuests; n++ {
		out = append(out, n)
	}
	return out
}

// TimeLabel renders "13:30" as "1:30 PM". Unparsable values are returned as is.
func TimeLabel(hhmm string) string {
	t, err := time.Parse(timeLayout, hhmm)
	if err != nil {
		return hhmm
	}
	return t.Format("3:04 PM")
}

func GuestLabel(n int) string {
	if n == 1 {
		return "1 Guest"
	}
	return fmt.Sprintf("%d Guests", n)
}
