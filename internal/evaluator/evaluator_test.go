package evaluator

import "testing"

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
		want     Correctness
		diag     Diagnostic
	}{
		// Equivalence
		{"exact fraction", "11/12", "11/12", Correct, DiagExactMatch},
		{"unreduced fraction", "2/6", "1/3", Correct, DiagEquivalentForm},
		{"repeating decimal", "0.333...", "1/3", Correct, DiagEquivalentForm},
		{"repeating decimal ellipsis char", "0.1666…", "1/6", Correct, DiagEquivalentForm},
		{"rounded decimal", "0.33", "1/3", Correct, DiagEquivalentForm},
		{"exact decimal", "0.5", "1/2", Correct, DiagEquivalentForm},
		{"bare leading point", ".5", "1/2", Correct, DiagEquivalentForm},
		{"negative bare leading point", "-.25", "-1/4", Correct, DiagEquivalentForm},
		{"denominator sign", "1/-7", "-1/7", Correct, DiagExactMatch},
		{"integer", "42", "42", Correct, DiagExactMatch},
		{"negative integer", "-3", "-3", Correct, DiagExactMatch},
		{"spaced slash", "3 / 4", "3/4", Correct, DiagExactMatch},

		// Embedded answers
		{"sentence", "I think it's 2/3", "2/3", Correct, DiagExactMatch},
		{"last number wins", "first I got 5 then 7", "7", Correct, DiagExactMatch},
		{"equation form", "x = 5", "5", Correct, DiagExactMatch},
		{"equation form unspaced", "x=5", "5", Correct, DiagExactMatch},
		{"equation spoken", "x equals 5", "5", Correct, DiagExactMatch},
		{"hinglish filler", "mera answer hai 12", "12", Correct, DiagExactMatch},

		// Spoken numbers
		{"english words", "one by seven", "1/7", Correct, DiagExactMatch},
		{"minus words", "minus one by seven", "-1/7", Correct, DiagExactMatch},
		{"or heard for over", "minus 1 or 7", "-1/7", Correct, DiagExactMatch},
		{"hindi words", "teen baata chaar", "3/4", Correct, DiagExactMatch},
		{"devanagari words", "तीन बटा चार", "3/4", Correct, DiagExactMatch},
		{"devanagari digits", "३/४", "3/4", Correct, DiagExactMatch},
		{"devanagari minus", "माइनस एक बटा सात", "-1/7", Correct, DiagExactMatch},
		{"english digit in devanagari", "वन बाई सेवन", "1/7", Correct, DiagExactMatch},
		{"fraction word", "two thirds", "2/3", Correct, DiagExactMatch},
		{"half alone", "half", "1/2", Correct, DiagExactMatch},
		{"hindi fraction word", "teen chauthai", "3/4", Correct, DiagExactMatch},
		{"compound english", "twenty one", "21", Correct, DiagExactMatch},
		{"divided by", "eleven divided by twelve", "11/12", Correct, DiagExactMatch},
		{"dedh", "dedh", "3/2", Correct, DiagExactMatch},
		{"spoken decimal", "zero point five", "1/2", Correct, DiagEquivalentForm},
		{"spoken decimal digits", "0 point 5", "1/2", Correct, DiagEquivalentForm},
		{"spoken decimal two digits", "zero point two five", "1/4", Correct, DiagEquivalentForm},
		{"spoken decimal compound", "twenty one point five", "43/2", Correct, DiagEquivalentForm},
		{"spoken decimal hindi", "शून्य दशमलव पाँच", "1/2", Correct, DiagEquivalentForm},
		{"point without digits", "point", "1/2", Incorrect, DiagUnparseable},

		// Partial credit
		{"missing denominator", "-1", "-1/7", Partial, DiagMissingDenominator},
		{"missing denominator words", "minus 1", "-1/7", Partial, DiagMissingDenominator},
		{"magnitude only", "1", "-1/7", Partial, DiagMissingDenominator},
		{"sign error", "1/7", "-1/7", Partial, DiagSignError},
		{"sign error words", "one by seven", "-1/7", Partial, DiagSignError},
		{"sign error integer", "-5", "5", Partial, DiagSignError},

		// Incorrect
		{"wrong integer", "5", "-1/7", Incorrect, DiagWrongValue},
		{"wrong numerator", "2/7", "-1/7", Incorrect, DiagWrongNumerator},
		{"wrong numerator negative", "-5/7", "-1/7", Incorrect, DiagWrongNumerator},
		{"wrong denominator", "11/13", "11/12", Incorrect, DiagWrongDenominator},
		{"close", "0.9", "11/12", Incorrect, DiagCloseNotExact},
		{"far", "1/3", "11/12", Incorrect, DiagWrongValue},
		{"decimal overflow", "9223372036854775807.5", "1/2", Incorrect, DiagUnparseable},
		{"negative decimal overflow", "-9223372036854775807.5", "1/2", Incorrect, DiagUnparseable},
		{"unparseable", "hello", "1/3", Incorrect, DiagUnparseable},
		{"empty", "", "1/3", Incorrect, DiagUnparseable},
		{"whitespace", "   ", "1/3", Incorrect, DiagUnparseable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.raw, tt.expected, nil)
			if got.Correctness != tt.want {
				t.Errorf("Evaluate(%q, %q).Correctness = %s, want %s", tt.raw, tt.expected, got.Correctness, tt.want)
			}
			if got.Diagnostic != tt.diag {
				t.Errorf("Evaluate(%q, %q).Diagnostic = %s, want %s", tt.raw, tt.expected, got.Diagnostic, tt.diag)
			}
		})
	}
}

func TestEvaluate_AcceptedEquivalents(t *testing.T) {
	got := Evaluate("0.25", "1/4", []string{"0.25"})
	if got.Correctness != Correct {
		t.Errorf("Correctness = %s, want CORRECT", got.Correctness)
	}

	got = Evaluate("25", "1/4", []string{"25/100"})
	if got.Correctness == Correct {
		t.Errorf("25 should not match 1/4, got %s", got.Correctness)
	}
}

func TestEvaluate_Submitted(t *testing.T) {
	tests := []struct {
		raw       string
		submitted string
		canonical string
	}{
		{"I think it's 2/3", "2/3", "2/3"},
		{"minus 1 or 7", "minus 1 or 7", "-1/7"},
		{"one by seven", "one by seven", "1/7"},
		{"2/6", "2/6", "1/3"},
		{"zero point five", "zero point five", "1/2"},
		{".5", ".5", "1/2"},
		{"hello", "", ""},
	}
	for _, tt := range tests {
		got := Evaluate(tt.raw, "1/3", nil)
		if got.Submitted != tt.submitted {
			t.Errorf("Evaluate(%q).Submitted = %q, want %q", tt.raw, got.Submitted, tt.submitted)
		}
		if got.Canonical != tt.canonical {
			t.Errorf("Evaluate(%q).Canonical = %q, want %q", tt.raw, got.Canonical, tt.canonical)
		}
	}
}

func TestEvaluate_YesNo(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
		want     Correctness
	}{
		{"haan", "yes", Correct},
		{"हाँ", "yes", Correct},
		{"yes it is", "yes", Correct},
		{"nahi", "yes", Incorrect},
		{"nahi", "no", Correct},
		{"no", "no", Correct},
		{"", "yes", Incorrect},
	}
	for _, tt := range tests {
		got := Evaluate(tt.raw, tt.expected, nil)
		if got.Correctness != tt.want {
			t.Errorf("Evaluate(%q, %q) = %s, want %s", tt.raw, tt.expected, got.Correctness, tt.want)
		}
	}
}

func TestEvaluator_Tolerance(t *testing.T) {
	strict := New(0.001)
	if got := strict.Evaluate("0.33", "1/3", nil); got.Correctness == Correct {
		t.Errorf("0.33 with tolerance 0.001 = %s, want not CORRECT", got.Correctness)
	}
	loose := New(0.01)
	if got := loose.Evaluate("0.33", "1/3", nil); got.Correctness != Correct {
		t.Errorf("0.33 with tolerance 0.01 = %s, want CORRECT", got.Correctness)
	}
}

func TestParseCanonical(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"2/4", "1/2", false},
		{"-3/-6", "1/2", false},
		{"3/-6", "-1/2", false},
		{"0.75", "3/4", false},
		{"-0.5", "-1/2", false},
		{"0.333...", "1/3", false},
		{".5", "1/2", false},
		{"9223372036854775807.5", "", true},
		{"7", "7", false},
		{"0/5", "0", false},
		{"1/0", "", true},
		{"abc", "", true},
	}
	for _, tt := range tests {
		got, err := ParseCanonical(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseCanonical(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseCanonical(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got.String() != tt.want {
			t.Errorf("ParseCanonical(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestLooksLikeAnswer(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"5", true},
		{"minus ek baata saat", true},
		{"I think it's 2/3", true},
		{"two thirds", true},
		{"ek baar phir samjhao", false},
		{"mujhe nahi pata", false},
		{"hello didi", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := LooksLikeAnswer(tt.text); got != tt.want {
			t.Errorf("LooksLikeAnswer(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestWordValue_Phonetic(t *testing.T) {
	tests := []struct {
		word string
		want int64
		ok   bool
	}{
		{"seven", 7, true},
		{"saat", 7, true},
		{"fore", 4, true},
		{"for", 0, false},
		{"banana", 0, false},
	}
	for _, tt := range tests {
		got, ok := wordValue(tt.word)
		if ok != tt.ok || got != tt.want {
			t.Errorf("wordValue(%q) = (%d, %v), want (%d, %v)", tt.word, got, ok, tt.want, tt.ok)
		}
	}
}
