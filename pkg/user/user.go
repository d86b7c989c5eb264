package user

import "time"

// User is an authenticated account. Uid is the stable identifier assigned at
// first sign-in and referenced by calendars, shares, and invitations.
type User struct {
	Uid         string
	Email       string
	DisplayName string
	PhotoUrl    string
	Settings    Settings
}

type Settings struct {
	Timezone     string
	WeekFirstDay time.Weekday
}
