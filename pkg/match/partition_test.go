package match

import "testing"

func TestPartitionsMatchBothEmpty(t *testing.T) {
	if !partitionsMatch(nil, nil) {
		t.Fatal("empty partition sets must match")
	}
}

func TestPartitionsMatchSharedName(t *testing.T) {
	if !partitionsMatch([]string{"A", "B"}, []string{"B", "C"}) {
		t.Fatal("sets sharing a literal name must match")
	}
}

func TestPartitionsMatchNoOverlap(t *testing.T) {
	if partitionsMatch([]string{"A"}, []string{"B"}) {
		t.Fatal("disjoint literal sets must not match")
	}
}

func TestPartitionsMatchOneEmptyOneNot(t *testing.T) {
	if partitionsMatch(nil, []string{"A"}) {
		t.Fatal("empty vs non-empty partition must not match")
	}
}

func TestGlobMatchStar(t *testing.T) {
	if !globMatch("A*", "AXYZ") {
		t.Fatal("A* must match AXYZ")
	}
	if globMatch("A*", "BXYZ") {
		t.Fatal("A* must not match BXYZ")
	}
}

func TestGlobMatchQuestion(t *testing.T) {
	if !globMatch("A?C", "ABC") {
		t.Fatal("A?C must match ABC")
	}
	if globMatch("A?C", "ABBC") {
		t.Fatal("A?C must not match ABBC")
	}
}

func TestGlobMatchClass(t *testing.T) {
	if !globMatch("[AB]X", "AX") {
		t.Fatal("[AB]X must match AX")
	}
	if !globMatch("[!AB]X", "CX") {
		t.Fatal("[!AB]X must match CX")
	}
	if globMatch("[!AB]X", "AX") {
		t.Fatal("[!AB]X must not match AX")
	}
}

func TestGlobMatchEscape(t *testing.T) {
	if !globMatch(`A\*B`, "A*B") {
		t.Fatal(`A\*B must match the literal A*B`)
	}
	if globMatch(`A\*B`, "AXB") {
		t.Fatal(`A\*B must not match AXB`)
	}
}

func TestGlobMatchPlusQuantifier(t *testing.T) {
	if !globMatch("A+", "AAA") {
		t.Fatal("A+ must match AAA (one-or-more quantifier preserved)")
	}
	if globMatch("A+", "B") {
		t.Fatal("A+ must not match B")
	}
}

func TestGlobMatchUnclosedBracketLiteral(t *testing.T) {
	if !globMatch("A[B", "A[B") {
		t.Fatal("an unclosed '[' must be taken literally")
	}
}

func TestPartitionsMatchGlob(t *testing.T) {
	if !partitionsMatch([]string{"prod.*"}, []string{"prod.sensors"}) {
		t.Fatal("a glob on one side must match a literal name on the other")
	}
}
