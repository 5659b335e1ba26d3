package tokenizer

import "strings"

// NameKind classifies a reserved name of the device language.
type NameKind int

const (
	NotReserved NameKind = iota
	Keyword
	TypeKeyword
	Builtin
	BooleanConstant
	DeviceConstant
)

// String returns the string representation of NameKind
func (k NameKind) String() string {
	switch k {
	case Keyword:
		return "keyword"
	case TypeKeyword:
		return "type"
	case Builtin:
		return "builtin"
	case BooleanConstant:
		return "boolean"
	case DeviceConstant:
		return "constant"
	default:
		return "user"
	}
}

// ReservedNames is the fixed set of names that identifier renaming must never touch.
var ReservedNames = map[string]NameKind{
	// Keywords
	"if": Keyword, "while": Keyword, "else": Keyword, "switch": Keyword, "case": Keyword,
	"default": Keyword, "for": Keyword, "do": Keyword, "return": Keyword, "break": Keyword,
	"continue": Keyword, "function": Keyword, "combo": Keyword, "init": Keyword, "main": Keyword,
	"enum": Keyword, "define": Keyword, "const": Keyword, "local": Keyword, "use": Keyword,
	"import": Keyword, "not": Keyword,

	// Types
	"int": TypeKeyword, "int8": TypeKeyword, "int16": TypeKeyword, "int32": TypeKeyword,
	"uint8": TypeKeyword, "uint16": TypeKeyword, "uint32": TypeKeyword, "string": TypeKeyword,
	"data": TypeKeyword, "image": TypeKeyword, "ps5adt": TypeKeyword,

	// Built-in functions
	"duint8": Builtin, "duint16": Builtin, "dint32": Builtin, "dint8": Builtin, "dint16": Builtin,
	"get_val": Builtin, "get_lval": Builtin, "get_ptime": Builtin, "get_controller": Builtin, "get_battery": Builtin,
	"event_press": Builtin, "event_release": Builtin, "get_ival": Builtin, "get_brtime": Builtin,
	"swap": Builtin, "block": Builtin, "sensitivity": Builtin, "deadzone": Builtin, "stickize": Builtin,
	"ps4_touchpad": Builtin, "ps4_set_touchpad": Builtin, "turn_off": Builtin, "wii_offscreen": Builtin,
	"get_adt": Builtin, "set_adt": Builtin, "adt_off": Builtin, "adt_cmp": Builtin, "adt_setx": Builtin, "addr": Builtin,
	"get_rumble": Builtin, "set_rumble": Builtin, "block_rumble": Builtin, "reset_rumble": Builtin,
	"set_led": Builtin, "get_led": Builtin, "set_ledx": Builtin, "get_ledx": Builtin, "reset_leds": Builtin,
	"get_ps4_lbar": Builtin, "set_ps4_lbar": Builtin,
	"get_keyboard": Builtin, "get_modifiers": Builtin, "get_rtime": Builtin, "get_slot": Builtin, "load_slot": Builtin,
	"get_ctrlbutton": Builtin, "vm_tctrl": Builtin, "set_polar": Builtin, "set_rgb": Builtin, "set_hsb": Builtin,
	"clamp": Builtin, "get_polar": Builtin, "get_ipolar": Builtin, "remap": Builtin, "unmap": Builtin,
	"combo_run": Builtin, "combo_running": Builtin, "combo_stop": Builtin, "combo_restart": Builtin,
	"combo_suspend": Builtin, "combo_suspended": Builtin, "combo_current_step": Builtin,
	"combo_step_time_left": Builtin, "combo_stop_all": Builtin, "combo_suspend_all": Builtin,
	"combo_resume": Builtin, "combo_resume_all": Builtin,
	"wait": Builtin, "call": Builtin, "set_bit": Builtin, "clear_bit": Builtin, "test_bit": Builtin,
	"set_bits": Builtin, "get_bits": Builtin,
	"abs": Builtin, "inv": Builtin, "pow": Builtin, "isqrt": Builtin, "random": Builtin, "min": Builtin, "max": Builtin,
	"pixel_oled": Builtin, "line_oled": Builtin, "rect_oled": Builtin, "circle_oled": Builtin,
	"putc_oled": Builtin, "puts_oled": Builtin, "print": Builtin, "cls_oled": Builtin,
	"get_console": Builtin, "set_val": Builtin, "block_all_inputs": Builtin, "get_info": Builtin,
	"set_polar2": Builtin, "sizeof": Builtin, "get_pvar": Builtin, "set_pvar": Builtin, "image_oled": Builtin,

	// Booleans
	"TRUE": BooleanConstant, "FALSE": BooleanConstant, "NULL": BooleanConstant,
}

// DeviceConstantPrefixes are the uppercase prefixes of the device's predefined constants.
var DeviceConstantPrefixes = []string{
	"PS5_", "PS4_", "PS3_", "XB1_", "XB360_", "SWI_",
	"KEY_", "MOD_", "OLED_", "SPVAR_", "PVAR_", "ASCII_",
	"POLAR_", "ANALOG_", "TRACE_", "RUMBLE_", "LED_",
	"PLAYER_", "BITMASK_",
}

// LookupName returns the reserved class of name, or NotReserved for user names
func LookupName(name string) NameKind {
	if kind, ok := ReservedNames[name]; ok {
		return kind
	}

	for _, prefix := range DeviceConstantPrefixes {
		if strings.HasPrefix(name, prefix) {
			return DeviceConstant
		}
	}

	return NotReserved
}

// IsReserved reports whether name is a keyword, type, builtin, boolean or device constant
func IsReserved(name string) bool {
	return LookupName(name) != NotReserved
}
