package dictionary

var builtin = []string{
	"manoratra",
	"manampy",
	"mandroso",
	"manao",
	"mianatra",
	"miasa",
	"mahita",
	"malagasy",
	"misaotra",
}

// Builtin returns the small Malagasy word list used when no dictionary is
// configured.
func Builtin() []string {
	return append([]string(nil), builtin...)
}
