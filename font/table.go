package font

// Table is the capability set every table variant implements: parse (via
// the registry's parseFunc, not a method, since Go has no static virtual
// dispatch), copy, and dump. This is the closed-sum-type rendering of the
// source's SfntTable base class (see SPEC_FULL.md: "Dynamic dispatch of
// tables").
type Table interface {
	// Copy returns a deep copy sharing no mutable state with the receiver.
	Copy() Table

	// Dump serializes the table. It may return mutated dependency tables
	// that the orchestrator must re-install (e.g. glyf's dump recomputes
	// loca), mirroring the source's dump() -> (bytes, {tag: table}).
	Dump(configs *Configs, dependencies map[string]Table) ([]byte, map[string]Table, error)
}

// updater is implemented by tables whose derived fields must be
// recomputed from other tables' state before a dump (e.g. head, hhea).
type updater interface {
	Update(configs *Configs, tables map[string]Table) error
}

type parseFunc func(data []byte, configs *Configs, dependencies map[string]Table) (Table, error)

// tableType is the registry entry for one structural tag: its parse
// function and its three declared dependency relations.
type tableType struct {
	parse              parseFunc
	parseDependencies  []string
	updateDependencies []string
	dumpDependencies   []string
}

// tableTypeRegistry maps a tag to its structural table type. Tags absent
// from this map fall back to defaultTableType (an opaque byte blob).
var tableTypeRegistry = map[string]tableType{
	"head": {parse: parseHeadTable, updateDependencies: []string{"CFF ", "CFF2", "glyf", "loca"}},
	"maxp": {parse: parseMaxpTable},
	"hhea": {parse: parseHheaTable, updateDependencies: []string{"hmtx"}},
	"vhea": {parse: parseVheaTable, updateDependencies: []string{"vmtx"}},
	"hmtx": {parse: parseHmtxTable, parseDependencies: []string{"hhea", "maxp"}},
	"vmtx": {parse: parseVmtxTable, parseDependencies: []string{"vhea", "maxp"}},
	"loca": {parse: parseLocaTable, parseDependencies: []string{"maxp", "head"}, dumpDependencies: []string{"head"}},
	"glyf": {parse: parseGlyfTable, parseDependencies: []string{"loca"}},
	"DSIG": {parse: parseDsigTable},
	"CFF ": {parse: parseCffTable},
	"CFF2": {parse: parseCff2Table},
}

var defaultTableType = tableType{parse: parseDefaultTable}

func lookupTableType(tag string) tableType {
	if t, ok := tableTypeRegistry[tag]; ok {
		return t
	}
	return defaultTableType
}
