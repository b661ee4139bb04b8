package analysis

// Message keys used by the built-in detectors.
const (
	MsgSharedState        = "sharedState"
	MsgInitInSetup        = "initInSetup"
	MsgRemovalRace        = "removalRace"
	MsgRemovalRaceNoFix   = "removalRaceNoFix"
	MsgRemovalRaceNoProof = "removalRaceNoProof"
	MsgHardWait           = "hardWait"
	MsgImmediateAssert    = "immediateAssert"
	MsgUnmockedNetwork    = "unmockedNetwork"
	MsgUnmockedFS         = "unmockedFS"
	MsgRandomData         = "randomData"
	MsgFocusedTest        = "focusedTest"
)

// messageCatalog maps message keys to templates. ${name} placeholders are
// filled from the finding's message data.
var messageCatalog = map[string]string{
	MsgSharedState: "Variable '${name}' is declared in ${scope} scope and mutated inside a test;" +
		" tests sharing mutable state can pass or fail depending on execution order",
	MsgInitInSetup: "Variable '${name}' is initialized at its declaration and reassigned in a setup hook;" +
		" move the initial value into the hook so every test starts from the same state",
	MsgRemovalRace: "'${target}' was shown present and then acted on; assert its disappearance" +
		" inside waitFor instead of synchronously",
	MsgRemovalRaceNoFix: "'${target}' was shown present and then acted on; assert its disappearance" +
		" inside a polling helper instead of synchronously",
	MsgRemovalRaceNoProof: "Absence is asserted right after an interaction; if the element was visible" +
		" before, its removal may not have settled yet, so consider a polling assertion",
	MsgHardWait: "Hard-coded ${ms}ms wait; fixed sleeps either slow the suite down or" +
		" expire before the condition holds, so poll for the condition instead",
	MsgImmediateAssert: "Assertion runs synchronously after '${trigger}' without awaiting its effects;" +
		" await the interaction or poll for the expected state",
	MsgUnmockedNetwork: "'${callee}' performs real network I/O in a test; an unmocked endpoint" +
		" makes the test depend on external availability",
	MsgUnmockedFS: "'${callee}' touches the real filesystem in a test; parallel runs and leftover" +
		" files make this order dependent",
	MsgRandomData: "'${source}' produces a different value on every run; randomness in assertions" +
		" makes failures unreproducible",
	MsgFocusedTest: "'${callee}' skips the rest of the suite; focused tests left in commits hide regressions",
}
