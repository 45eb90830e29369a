package prtr

// substance is one row of the bundled survey table.
type substance struct {
	name      string
	group     string
	threshold string
}

// substances maps normalized CAS numbers to their survey classification.
// Group 1 substances report above 1,000 kg/year of handling; group 2
// (carcinogens and other substances of concern) above 100 kg/year.
var substances = map[string]substance{
	"50-00-0":   {"포름알데히드", "2그룹", "100kg/년"},
	"71-43-2":   {"벤젠", "2그룹", "100kg/년"},
	"75-09-2":   {"디클로로메탄", "2그룹", "100kg/년"},
	"79-01-6":   {"트리클로로에틸렌", "2그룹", "100kg/년"},
	"100-41-4":  {"에틸벤젠", "1그룹", "1,000kg/년"},
	"100-42-5":  {"스티렌", "1그룹", "1,000kg/년"},
	"107-13-1":  {"아크릴로니트릴", "2그룹", "100kg/년"},
	"108-88-3":  {"톨루엔", "1그룹", "1,000kg/년"},
	"108-95-2":  {"페놀", "1그룹", "1,000kg/년"},
	"110-54-3":  {"노말헥산", "1그룹", "1,000kg/년"},
	"127-18-4":  {"테트라클로로에틸렌", "2그룹", "100kg/년"},
	"1330-20-7": {"자일렌", "1그룹", "1,000kg/년"},
	"7439-92-1": {"납 및 그 화합물", "2그룹", "100kg/년"},
	"7440-02-0": {"니켈 및 그 화합물", "2그룹", "100kg/년"},
	"7440-43-9": {"카드뮴 및 그 화합물", "2그룹", "100kg/년"},
	"7440-47-3": {"크롬 및 그 화합물", "2그룹", "100kg/년"},
	"7647-01-0": {"염화수소", "1그룹", "1,000kg/년"},
	"7664-39-3": {"불화수소", "1그룹", "1,000kg/년"},
	"7664-41-7": {"암모니아", "1그룹", "1,000kg/년"},
	"7664-93-9": {"황산", "1그룹", "1,000kg/년"},
	"7782-50-5": {"염소", "1그룹", "1,000kg/년"},
	"108-05-4":  {"초산비닐", "1그룹", "1,000kg/년"},
	"75-21-8":   {"산화에틸렌", "2그룹", "100kg/년"},
	"106-99-0":  {"1,3-부타디엔", "2그룹", "100kg/년"},
	"67-56-1":   {"메탄올", "1그룹", "1,000kg/년"},
}

// TableSize reports the number of bundled substances.
func TableSize() int {
	return len(substances)
}
