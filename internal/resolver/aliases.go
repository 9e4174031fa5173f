// Package resolver maps event identities across code renames and resolves
// events and teams into named regions.
package resolver

// eventCodeAliases groups event codes that belong to the same recurring
// event lineage. Keyed by the canonical current code; the value set holds
// every historical code, covering the 2012-2013 code migration and later
// renames.
var eventCodeAliases = map[string][]string{
	"flor":  {"fl", "flor"},                  // Orlando / Kennedy Space Center / Florida Regional
	"flwp":  {"sfl", "flbr", "flfo", "flwp"}, // South Florida Regional
	"ohcl":  {"oh", "ohcl"},                  // Buckeye Regional
	"lake":  {"la", "lake"},                  // Bayou Regional
	"scmb":  {"sc", "scmb"},                  // Palmetto Regional
	"gadu":  {"ga", "gadu"},                  // Peachtree Regional
	"cala":  {"ca", "calb", "capo", "cala"},  // Los Angeles Regional
	"casj":  {"ca2", "sj", "casj"},           // Silicon Valley Regional
	"cada":  {"sac", "casa", "cada"},         // Sacramento Regional
	"paca":  {"papi", "paca"},                // Greater Pittsburgh Regional
	"mdba":  {"md", "mdba", "mdcp"},          // Chesapeake Regional
	"ilch":  {"il", "ilch"},                  // Midwest Regional
	"gl":    {"mi", "mi1", "gl"},             // Great Lakes Regional
	"txsa":  {"stx", "txsa"},                 // Alamo Regional
	"nhgrs": {"nh", "nhgrs", "nhsal"},        // Granite State
	"nyro":  {"roc", "nyro"},                 // Finger Lakes Regional
	"nyli2": {"li", "nyli", "nyli2"},         // Long Island Regional
	"nyny":  {"ny2", "nyny"},                 // New York City Regional
	"nytr":  {"ny", "nyal", "nytr"},          // New York Tech Valley Regional
	"mabos": {"ma", "mabos"},                 // Boston / Greater Boston
	"ctha":  {"ct", "ctha"},                  // Connecticut Regional
	"code":  {"co", "code"},                  // Colorado Regional
	"hiho":  {"hi", "hiho"},                  // Hawaii Regional
	"utwv":  {"ut", "utwv"},                  // Utah Regional
	"wimi":  {"wi", "wimi"},                  // Wisconsin Regional
	"mnmi":  {"mn", "mnmi"},                  // Minnesota Regional
	"okok":  {"ok", "okok"},                  // Oklahoma Regional
	"arli":  {"arfa", "arli"},                // Arkansas Regional
	"azva":  {"az", "azva"},                  // Arizona Regional
	"onwat": {"wat", "onwat"},                // Waterloo Regional
}

// codeToFamily indexes every alias code to its full family.
var codeToFamily = func() map[string]map[string]bool {
	idx := make(map[string]map[string]bool, len(eventCodeAliases))
	for _, codes := range eventCodeAliases {
		family := make(map[string]bool, len(codes))
		for _, c := range codes {
			family[c] = true
		}
		for _, c := range codes {
			idx[c] = family
		}
	}
	return idx
}()

// AliasFamily returns the set of event codes sharing a lineage with code,
// and whether the code appears in the curated alias table. Codes outside
// the table form a single-member family.
func AliasFamily(code string) (map[string]bool, bool) {
	if family, ok := codeToFamily[code]; ok {
		return family, true
	}
	return map[string]bool{code: true}, false
}
