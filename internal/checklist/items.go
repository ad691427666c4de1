package checklist

import "github.com/dtroode/m2m-server/internal/model"

// Item is a single checklist task.
type Item struct {
	ID      string
	Text    string
	Checked bool
}

var templates = map[model.ChecklistType][]Item{
	model.ChecklistOpening: {
		{ID: "unlock", Text: "Unlocked the shop via Nuki app"},
		{ID: "lights", Text: "Turned on lights and heating, put bench and signs outside"},
		{ID: "rooms", Text: "Prepared the treatment rooms with fresh towels"},
		{ID: "appointments", Text: "Checked today's appointments in Fresha"},
		{ID: "supplies", Text: "Checked oil, linen and cleaning supplies"},
	},
	model.ChecklistEvening: {
		{ID: "checkout", Text: "Checked out all appointments in Fresha"},
		{ID: "towels", Text: "Washed towels and put them to dry"},
		{ID: "dishwasher", Text: "Run the dishwasher"},
		{ID: "cleaning", Text: "Cleaned the apartment and left it tidy for colleagues"},
		{ID: "payment", Text: "Made instant bank transfer for rent payment"},
		{ID: "handover", Text: "Completed handover with colleague to communicate any information"},
	},
	model.ChecklistNight: {
		{ID: "checkout", Text: "Checked out all appointments in Fresha"},
		{ID: "towels", Text: "Washed towels and put them to dry"},
		{ID: "dishwasher", Text: "Run the dishwasher"},
		{ID: "cleaning", Text: "Cleaned the apartment and left it tidy for colleagues"},
		{ID: "payment", Text: "Made instant bank transfer for rent payment"},
		{ID: "lights", Text: "Turned off all lights, heating, moved bench and signs inside"},
		{ID: "lock", Text: "Locked the shop via Nuki app and verified it's locked"},
	},
}

// Items returns a fresh, unchecked copy of a checklist's tasks.
func Items(checklist model.ChecklistType) []Item {
	return append([]Item(nil), templates[checklist]...)
}
