package templates

import (
	"github.com/RoamLine/trip-progress-engine/types"
	"github.com/shopspring/decimal"
)

// Seed data for named trips. Statuses stored here are placeholders;
// Resolve overwrites them on every call.

func vnd(amount int64) *decimal.Decimal {
	d := decimal.NewFromInt(amount)
	return &d
}

func ride(mode types.TransportMode, duration string, cost *decimal.Decimal) *types.TransportInfo {
	return &types.TransportInfo{Mode: mode, DurationLabel: duration, Cost: cost}
}

func builtinThemes() map[string]string {
	return map[string]string{
		"Beach & Culture Explorer": "Coastal Heritage",
		"Hanoi Street Food Crawl":  "Night Market Feast",
	}
}

func builtinTemplates() map[string]tripTemplate {
	return map[string]tripTemplate{
		"Beach & Culture Explorer": {
			1: {
				{ID: "1-1", Name: "My Khe Beach Sunrise", Category: "beach", ScheduledTime: "06:00", DurationLabel: "1.5h",
					Address: "Vo Nguyen Giap, Da Nang", ImageRef: "my-khe-sunrise"},
				{ID: "1-2", Name: "Banh Mi Ba Lan", Category: "food", ScheduledTime: "08:00", DurationLabel: "45m",
					Address: "62 Trung Nu Vuong", ImageRef: "banh-mi-ba-lan",
					Transport: ride(types.TransportModeGrabBike, "12m", vnd(28000))},
				{ID: "1-3", Name: "Museum of Cham Sculpture", Category: "culture", ScheduledTime: "09:30", DurationLabel: "2h",
					Address: "02 2 Thang 9", ImageRef: "cham-museum",
					Transport: ride(types.TransportModeWalk, "8m", nil)},
				{ID: "1-4", Name: "Han Market Lunch", Category: "food", ScheduledTime: "12:00", DurationLabel: "1h",
					Address: "119 Tran Phu", ImageRef: "han-market",
					Transport: ride(types.TransportModeWalk, "10m", nil)},
				{ID: "1-5", Name: "Marble Mountains", Category: "sight", ScheduledTime: "14:00", DurationLabel: "3h",
					Address: "52 Huyen Tran Cong Chua", ImageRef: "marble-mountains",
					Transport: ride(types.TransportModeGrabCar, "25m", vnd(95000))},
			},
			2: {
				{ID: "2-1", Name: "Hoi An Ancient Town", Category: "culture", ScheduledTime: "08:00", DurationLabel: "3h",
					Address: "Minh An, Hoi An", ImageRef: "hoi-an-old-town",
					Transport: ride(types.TransportModeGrabCar, "45m", vnd(180000))},
				{ID: "2-2", Name: "Banh Xeo Ba Duong", Category: "food", ScheduledTime: "11:30", DurationLabel: "1h",
					Address: "K280/23 Hoang Dieu", ImageRef: "banh-xeo",
					Transport: ride(types.TransportModeGrabBike, "15m", vnd(35000))},
				{ID: "2-3", Name: "An Bang Beach", Category: "beach", ScheduledTime: "13:30", DurationLabel: "2.5h",
					Address: "An Bang, Hoi An", ImageRef: "an-bang-beach",
					Transport: ride(types.TransportModeGrabBike, "18m", vnd(42000))},
				{ID: "2-4", Name: "Japanese Covered Bridge", Category: "sight", ScheduledTime: "16:30", DurationLabel: "45m",
					Address: "Nguyen Thi Minh Khai", ImageRef: "covered-bridge",
					Transport: ride(types.TransportModeGrabBike, "20m", vnd(40000))},
				{ID: "2-5", Name: "Lantern Night Market", Category: "market", ScheduledTime: "18:30", DurationLabel: "2h",
					Address: "Nguyen Hoang, Hoi An", ImageRef: "lantern-market",
					Transport: ride(types.TransportModeWalk, "6m", nil)},
			},
			3: {
				{ID: "3-1", Name: "Son Tra Peninsula Ride", Category: "sight", ScheduledTime: "07:30", DurationLabel: "2.5h",
					Address: "Son Tra, Da Nang", ImageRef: "son-tra",
					Transport: ride(types.TransportModeGrabBike, "30m", vnd(60000))},
				{ID: "3-2", Name: "Linh Ung Pagoda", Category: "culture", ScheduledTime: "10:30", DurationLabel: "1.5h",
					Address: "Hoang Sa, Tho Quang", ImageRef: "linh-ung",
					Transport: ride(types.TransportModeWalk, "12m", nil)},
				{ID: "3-3", Name: "Mi Quang 1A", Category: "food", ScheduledTime: "12:30", DurationLabel: "1h",
					Address: "1 Hai Phong", ImageRef: "mi-quang",
					Transport: ride(types.TransportModeGrabCar, "22m", vnd(88000))},
				{ID: "3-4", Name: "Dragon Bridge Walk", Category: "sight", ScheduledTime: "17:00", DurationLabel: "1h",
					Address: "Nguyen Van Linh", ImageRef: "dragon-bridge",
					Transport: ride(types.TransportModeWalk, "15m", nil)},
				{ID: "3-5", Name: "Bach Dang Riverside Dinner", Category: "food", ScheduledTime: "19:00", DurationLabel: "2h",
					Address: "Bach Dang, Hai Chau", ImageRef: "riverside-dinner",
					Transport: ride(types.TransportModeWalk, "10m", nil)},
			},
		},
		"Hanoi Street Food Crawl": {
			1: {
				{ID: "1-1", Name: "Pho Gia Truyen", Category: "food", ScheduledTime: "07:00", DurationLabel: "45m",
					Address: "49 Bat Dan", ImageRef: "pho-bat-dan"},
				{ID: "1-2", Name: "Egg Coffee at Giang Cafe", Category: "cafe", ScheduledTime: "08:30", DurationLabel: "45m",
					Address: "39 Nguyen Huu Huan", ImageRef: "egg-coffee",
					Transport: ride(types.TransportModeWalk, "9m", nil)},
				{ID: "1-3", Name: "Bun Cha Huong Lien", Category: "food", ScheduledTime: "11:30", DurationLabel: "1h",
					Address: "24 Le Van Huu", ImageRef: "bun-cha",
					Transport: ride(types.TransportModeGrabBike, "14m", vnd(32000))},
				{ID: "1-4", Name: "Train Street Snacks", Category: "food", ScheduledTime: "16:00", DurationLabel: "1.5h",
					Address: "Phung Hung", ImageRef: "train-street",
					Transport: ride(types.TransportModeGrabBike, "10m", vnd(25000))},
			},
			2: {
				{ID: "2-1", Name: "Banh Cuon Ba Hanh", Category: "food", ScheduledTime: "07:30", DurationLabel: "45m",
					Address: "26B Tho Xuong", ImageRef: "banh-cuon"},
				{ID: "2-2", Name: "Dong Xuan Market", Category: "market", ScheduledTime: "09:00", DurationLabel: "2h",
					Address: "Dong Xuan, Hoan Kiem", ImageRef: "dong-xuan",
					Transport: ride(types.TransportModeWalk, "11m", nil)},
				{ID: "2-3", Name: "Cha Ca Thang Long", Category: "food", ScheduledTime: "12:00", DurationLabel: "1.5h",
					Address: "21 Duong Thanh", ImageRef: "cha-ca",
					Transport: ride(types.TransportModeWalk, "7m", nil)},
				{ID: "2-4", Name: "Beer Corner Ta Hien", Category: "nightlife", ScheduledTime: "19:00", DurationLabel: "2h",
					Address: "Ta Hien, Hoan Kiem", ImageRef: "ta-hien",
					Transport: ride(types.TransportModeGrabBike, "8m", vnd(22000))},
			},
		},
	}
}

// genericTemplate is the fixed 4-stop fallback for unknown trip names or
// days past what a template defines.
func genericTemplate() []types.TripStop {
	return []types.TripStop{
		{ID: "g1", Name: "Morning Highlight", Category: "sight", ScheduledTime: "08:00", DurationLabel: "2h",
			ImageRef: "generic-morning"},
		{ID: "g2", Name: "Local Lunch Spot", Category: "food", ScheduledTime: "12:00", DurationLabel: "1h",
			ImageRef: "generic-lunch",
			Transport: ride(types.TransportModeWalk, "10m", nil)},
		{ID: "g3", Name: "Afternoon Discovery", Category: "culture", ScheduledTime: "14:00", DurationLabel: "2.5h",
			ImageRef: "generic-afternoon",
			Transport: ride(types.TransportModeGrabBike, "15m", vnd(30000))},
		{ID: "g4", Name: "Evening Food Walk", Category: "food", ScheduledTime: "18:30", DurationLabel: "2h",
			ImageRef: "generic-evening",
			Transport: ride(types.TransportModeWalk, "12m", nil)},
	}
}
