// Package paper maps PostScript paper names to page sizes.
//
// Names follow the PPD specification ("A4", "Letter", "EnvC5") and each
// size may carry one alternate name ("C5", "Note"). Lookups ignore ASCII
// case, so Dia's lower-case "a4" resolves too.
package paper

import (
	"math"
	"strings"
)

// Size is a portrait paper size in millimetres.
type Size struct {
	Name   string
	Alt    string
	Width  float64
	Height float64
}

func mm(v float64) float64 { return v }

// in converts inches to millimetres rounded to 1/100 mm.
func in(v float64) float64 { return math.Floor(v*2540+0.5) / 100 }

// pt converts points to millimetres rounded to 1/100 mm.
func pt(v float64) float64 { return math.Floor(v*35.27777778+0.5) / 100 }

var sizes = []Size{
	{"A0", "", mm(841), mm(1189)},
	{"A1", "", mm(594), mm(841)},
	{"A2", "", mm(420), mm(594)},
	{"A3", "", mm(297), mm(420)},
	{"A4", "", mm(210), mm(297)},
	{"A5", "", mm(148), mm(210)},
	{"ISOB4", "", mm(250), mm(353)},
	{"ISOB5", "", mm(176), mm(250)},
	{"Letter", "Note", in(8.5), in(11)},
	{"Legal", "", in(8.5), in(14)},
	{"Tabloid", "11x17", in(11), in(17)},
	{"ISOB6", "", mm(125), mm(176)},
	{"EnvC4", "C4", mm(229), mm(324)},
	{"EnvC5", "C5", mm(162), mm(229)},
	{"EnvC6", "C6", mm(114), mm(162)},
	{"EnvC65", "", mm(114), mm(229)},
	{"EnvDL", "DL", mm(110), mm(220)},
	{"AnsiC", "CSheet", in(17), in(22)},
	{"AnsiD", "DSheet", in(22), in(34)},
	{"AnsiE", "ESheet", in(34), in(44)},
	{"Executive", "", in(7.25), in(10.5)},
	{"FanFoldGermanLegal", "", in(8.5), in(13)},
	{"EnvMonarch", "Monarch", in(3.875), in(7.5)},
	{"EnvPersonal", "Personal", in(3.625), in(6.5)},
	{"Env9", "", in(3.875), in(8.875)},
	{"Env10", "Comm10", in(4.125), in(9.5)},
	{"Env11", "", in(4.5), in(10.375)},
	{"Env12", "", in(4.75), in(11)},
	{"B4", "", mm(257), mm(364)},
	{"B5", "", mm(182), mm(257)},
	{"B6", "", mm(128), mm(182)},
	{"Ledger", "", in(17), in(11)},
	{"Statement", "", in(5.5), in(8.5)},
	{"Quarto", "", pt(610), pt(780)},
	{"10x14", "", in(10), in(14)},
	{"Env14", "", in(5.5), in(11.5)},
	{"EnvC3", "C3", mm(324), mm(458)},
	{"EnvItalian", "", mm(110), mm(230)},
	{"FanFoldUS", "", in(14.875), in(11)},
	{"FanFoldGerman", "", in(8.5), in(13)},
	{"Postcard", "", mm(100), mm(148)},
	{"9x11", "", in(9), in(11)},
	{"10x11", "", in(10), in(11)},
	{"15x11", "", in(15), in(11)},
	{"EnvInvite", "", mm(220), mm(220)},
	{"SuperA", "", mm(227), mm(356)},
	{"SuperB", "", mm(305), mm(487)},
	{"LetterPlus", "", in(8.5), in(12.69)},
	{"A4Plus", "", mm(210), mm(330)},
	{"DoublePostcard", "", mm(200), mm(148)},
	{"A6", "", mm(105), mm(148)},
	{"12x11", "", in(12), in(11)},
	{"A7", "", mm(74), mm(105)},
	{"A8", "", mm(52), mm(74)},
	{"A9", "", mm(37), mm(52)},
	{"A10", "", mm(26), mm(37)},
	{"ISOB0", "", mm(1000), mm(1414)},
	{"ISOB1", "", mm(707), mm(1000)},
	{"ISOB2", "", mm(500), mm(707)},
	{"ISOB3", "", mm(353), mm(500)},
	{"ISOB7", "", mm(88), mm(125)},
	{"ISOB8", "", mm(62), mm(88)},
	{"ISOB9", "", mm(44), mm(62)},
	{"ISOB10", "", mm(31), mm(44)},
	{"EnvC2", "C2", mm(458), mm(648)},
	{"EnvC7", "C7", mm(81), mm(114)},
	{"EnvC8", "C8", mm(57), mm(81)},
	{"ARCHA", "", in(9), in(12)},
	{"ARCHB", "", in(12), in(18)},
	{"ARCHC", "", in(18), in(24)},
	{"ARCHD", "", in(24), in(36)},
	{"ARCHE", "", in(36), in(48)},
}

// Lookup returns the size registered under name or its alternate name.
// The first match in table order wins.
func Lookup(name string) (Size, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Size{}, false
	}
	for _, s := range sizes {
		if strings.EqualFold(s.Name, name) || (s.Alt != "" && strings.EqualFold(s.Alt, name)) {
			return s, true
		}
	}
	return Size{}, false
}

// Sizes returns a copy of the table.
func Sizes() []Size {
	return append([]Size(nil), sizes...)
}

// Landscape returns s with width and height swapped.
func (s Size) Landscape() Size {
	s.Width, s.Height = s.Height, s.Width
	return s
}
