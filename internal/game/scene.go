package game

// OptionSlot is one of the three fixed choice slots in a scene. Unused
// slots stay present but disabled, so the presentation layer always
// renders the same shape and never has to guess at slot count.
type OptionSlot struct {
	Label   string
	Enabled bool
}

// Scene is the presentation-agnostic payload emitted after every
// transition. Any front end (console, web, native) renders it the same
// way: caption, narration, three option slots. InBattle asks the front
// end to offer combat actions instead of the option slots; GameOver
// means the session is terminal and no slot is enabled.
type Scene struct {
	Caption  string
	Text     string
	Options  [MaxOptions]OptionSlot
	InBattle bool
	GameOver bool
}
