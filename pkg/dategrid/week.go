package dategrid

import "time"

// WeekOf returns the Monday-to-Sunday week containing date. A week spanning
// two months carries real dates from both.
func WeekOf(date time.Time, today time.Time) [7]Day {
	cursor := StartOfWeek(date)
	todayDate := DateOf(today)

	var week [7]Day
	for i := 0; i < 7; i++ {
		week[i] = Day{
			Date:    cursor,
			InMonth: cursor.Month() == date.Month() && cursor.Year() == date.Year(),
			Today:   cursor.Equal(todayDate),
		}
		cursor = cursor.AddDate(0, 0, 1)
	}
	return week
}

// WorkWeekOf returns the Monday-to-Friday part of the week containing date.
func WorkWeekOf(date time.Time, today time.Time) [5]Day {
	full := WeekOf(date, today)

	var week [5]Day
	copy(week[:], full[:5])
	return week
}
