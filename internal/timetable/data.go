package timetable

// Static timetable data for the Slavgorod city and suburban routes. Times are
// local (UTC+7), 24-hour "HH:MM". Notes mark factory shift runs.

type pointSchedule struct {
	key     string
	label   string
	entries []scheduleEntry
}

type scheduleEntry struct {
	time string
	note string
}

var allRoutes = []Route{
	{ID: "102", Number: "102", Name: "Славгород — Яровое"},
	{ID: "1", Number: "1", Name: "Вокзал — МСЧ-128"},
	{ID: "10", Number: "10", Name: "Славгород — Знаменка"},
}

var schedules = map[string][]pointSchedule{
	"102": {
		{
			key:   "slavgorod_rynok",
			label: "Рынок (Славгород)",
			entries: []scheduleEntry{
				{time: "06:25"}, {time: "06:45"}, {time: "07:10"},
				{time: "07:30"}, {time: "07:50"}, {time: "08:15"},
				{time: "08:40"}, {time: "09:05"}, {time: "09:30"},
				{time: "10:00"}, {time: "10:30"}, {time: "11:00"},
				{time: "11:30"}, {time: "12:00"}, {time: "12:30"},
				{time: "13:00"}, {time: "13:30"}, {time: "14:00"},
				{time: "14:30"}, {time: "15:00"}, {time: "15:30"},
				{time: "16:00"}, {time: "16:30"}, {time: "17:00"},
				{time: "17:30"}, {time: "18:00"}, {time: "18:35"},
				{time: "19:10"}, {time: "20:00"}, {time: "21:00"},
			},
		},
		{
			key:   "yarovoe_rynok",
			label: "Рынок (Яровое)",
			entries: []scheduleEntry{
				{time: "06:55"}, {time: "07:20"}, {time: "07:40"},
				{time: "08:00"}, {time: "08:25"}, {time: "08:50"},
				{time: "09:15"}, {time: "09:40"}, {time: "10:10"},
				{time: "10:40"}, {time: "11:10"}, {time: "11:40"},
				{time: "12:10"}, {time: "12:40"}, {time: "13:10"},
				{time: "13:40"}, {time: "14:10"}, {time: "14:40"},
				{time: "15:10"}, {time: "15:40"}, {time: "16:10"},
				{time: "16:40"}, {time: "17:10"}, {time: "17:40"},
				{time: "18:10"}, {time: "18:45"}, {time: "19:40"},
				{time: "20:30"}, {time: "21:30"},
			},
		},
	},
	"1": {
		{
			key:   "vokzal",
			label: "Вокзал",
			entries: []scheduleEntry{
				{time: "06:40", note: "1 смена"},
				{time: "07:20"},
				{time: "08:00"},
				{time: "09:00"},
				{time: "10:00"},
				{time: "11:00"},
				{time: "12:00"},
				{time: "13:00"},
				{time: "14:40", note: "2 смена"},
				{time: "15:20"},
				{time: "16:00"},
				{time: "17:00"},
				{time: "18:00"},
				{time: "22:40", note: "3 смена"},
			},
		},
		{
			key:   "msch128",
			label: "МСЧ-128",
			entries: []scheduleEntry{
				{time: "07:05", note: "1 смена"},
				{time: "07:45"},
				{time: "08:25"},
				{time: "09:25"},
				{time: "10:25"},
				{time: "11:25"},
				{time: "12:25"},
				{time: "13:25"},
				{time: "15:05", note: "2 смена"},
				{time: "15:45"},
				{time: "16:25"},
				{time: "17:25"},
				{time: "18:25"},
				{time: "23:05", note: "3 смена"},
			},
		},
	},
	"10": {
		{
			key:   "slavgorod_avtostancia",
			label: "Автостанция (Славгород)",
			entries: []scheduleEntry{
				{time: "06:10"}, {time: "09:30"}, {time: "13:20"},
				{time: "17:40"},
			},
		},
		{
			key:   "znamenka",
			label: "Знаменка",
			entries: []scheduleEntry{
				{time: "07:00"}, {time: "10:20"}, {time: "14:10"},
				{time: "18:30"},
			},
		},
	},
}
