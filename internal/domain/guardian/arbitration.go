package guardian

// NeuralVerdict is the optional recommendation from the external neural
// policy. A nil *NeuralVerdict means the Math Guardian score is the only
// input to Arbitrate.
type NeuralVerdict struct {
	Action     Action
	Confidence float64
}

// Arbitrated is the result of reconciling a Math Guardian verdict with an
// optional neural verdict.
type Arbitrated struct {
	Action     Action
	Confidence float64
	Source     Source
	CanExecute bool
	Reasoning  string
}

// Arbitrate runs the symbolic arbitration state machine that reconciles
// the Math Guardian's verdict with an optional neural recommendation.
// Cases are evaluated top to bottom; the first match wins.
func Arbitrate(mathAction Action, mathConfidence float64, mathReasoning string, neural *NeuralVerdict) Arbitrated {
	// HALT override takes priority over everything, including a missing
	// neural verdict, since it must dominate regardless of neural input.
	// Score never yields ActionHalt, so this case is unreachable from
	// GenerateSignal's call site today; kept first in case a future
	// scoring path starts producing it.
	if mathAction == ActionHalt {
		return Arbitrated{
			Action:     ActionHalt,
			Confidence: 1.0,
			Source:     SourceEmergencyHalt,
			CanExecute: false,
			Reasoning:  mathReasoning,
		}
	}

	if neural == nil {
		return Arbitrated{
			Action:     mathAction,
			Confidence: mathConfidence,
			Source:     SourceMathGuardian,
			CanExecute: mathAction != ActionHold && mathAction != ActionHalt && mathConfidence > 0.7,
			Reasoning:  mathReasoning,
		}
	}

	// Agreement: math and neural point the same non-HOLD direction.
	if neural.Action == mathAction && mathAction != ActionHold {
		confidence := (mathConfidence+neural.Confidence)/2 + 0.1
		if confidence > 1.0 {
			confidence = 1.0
		}
		return Arbitrated{
			Action:     mathAction,
			Confidence: confidence,
			Source:     SourceSymbolicConsensus,
			CanExecute: true,
			Reasoning:  mathReasoning + "; neural consensus",
		}
	}

	// Veto: math says SELL but neural pushes BUY. Capital-preservation
	// asymmetry, the symmetric BUY/SELL case falls through to Default.
	if mathAction == ActionSell && neural.Action == ActionBuy {
		return Arbitrated{
			Action:     ActionHold,
			Confidence: 0.0,
			Source:     SourceMathGuardian,
			CanExecute: false,
			Reasoning:  "[VETO] Math Guardian blocks risky BUY",
		}
	}

	if neural.Confidence < 0.85 && mathConfidence < 0.85 {
		return Arbitrated{
			Action:     ActionHold,
			Confidence: 0.5,
			Source:     SourceSymbolicConsensus,
			CanExecute: false,
			Reasoning:  "low consensus between math and neural verdicts",
		}
	}

	if mathAction == ActionHold && neural.Confidence > 0.85 {
		return Arbitrated{
			Action:     neural.Action,
			Confidence: neural.Confidence,
			Source:     SourceNeuralCortex,
			CanExecute: true,
			Reasoning:  "math neutral, neural trusted",
		}
	}

	return Arbitrated{
		Action:     mathAction,
		Confidence: mathConfidence,
		Source:     SourceMathGuardian,
		CanExecute: mathAction != ActionHold,
		Reasoning:  mathReasoning,
	}
}
