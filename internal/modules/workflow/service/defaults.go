package service

// DefaultSteps is the system authoring workflow used by every user who has
// not saved a custom one.
var DefaultSteps = []Step{
	{Name: "demucs", DisplayName: "Demucs", Order: 0},
	{Name: "midi", DisplayName: "MIDI", Order: 1},
	{Name: "tempo_map", DisplayName: "Tempo Map", Order: 2},
	{Name: "fake_ending", DisplayName: "Fake Ending", Order: 3},
	{Name: "drums", DisplayName: "Drums", Order: 4},
	{Name: "bass", DisplayName: "Bass", Order: 5},
	{Name: "guitar", DisplayName: "Guitar", Order: 6},
	{Name: "vocals", DisplayName: "Vocals", Order: 7},
	{Name: "harmonies", DisplayName: "Harmonies", Order: 8},
	{Name: "pro_keys", DisplayName: "Pro Keys", Order: 9},
	{Name: "keys", DisplayName: "Keys", Order: 10},
	{Name: "animations", DisplayName: "Animations", Order: 11},
	{Name: "drum_fills", DisplayName: "Drum Fills", Order: 12},
	{Name: "overdrive", DisplayName: "Overdrive", Order: 13},
	{Name: "compile", DisplayName: "Compile", Order: 14},
}
