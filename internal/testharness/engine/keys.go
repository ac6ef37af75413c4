package engine

// Actions.
const (
	ActionEncode    = "encode"
	ActionExpand    = "expand"
	ActionDetect    = "detect"
	ActionValidate  = "validate"
	ActionRoundTrip = "round_trip"
	ActionView      = "view"
)

// Step parameters.
const (
	// ParamInput is the JSON document the action works on. When absent the
	// previous step's KeyOutput is used.
	ParamInput = "input"

	ParamPattern      = "pattern"
	ParamMinKeyLength = "min_key_length"

	// ParamPath selects a node for the view action, e.g. "0/address/city".
	ParamPath = "path"

	// ParamPlain is the plain document a view is compared against.
	ParamPlain = "plain"
)

// Output and expectation keys.
const (
	KeyOutput     = "output"
	KeyDictionary = "dictionary"
	KeyData       = "data"
	KeyKeys       = "keys"
	KeyAliases    = "aliases"
	KeyOriginals  = "originals"
	KeySmaller    = "smaller"
	KeyTerse      = "terse"
	KeyKind       = "kind"
	KeyPassed     = "passed"
	KeyMessage    = "message"
	KeyError      = "error"

	// KeyErrorIs matches the error category: "malformed" or
	// "unsupported_version".
	KeyErrorIs = "error_is"

	// KeyOutputIdentical compares KeyOutput byte for byte after compaction.
	KeyOutputIdentical = "output_identical"
)
