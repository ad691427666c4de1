package calculator

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/dtroode/m2m-server/internal/model"
)

const (
	maxExpressionLength = 256
	maxNesting          = 64
)

// Evaluate computes an arithmetic expression typed into the utility calculator.
// It supports + - × ÷ (and * /), parentheses and unary signs.
func Evaluate(expression string) (decimal.Decimal, error) {
	if len(expression) > maxExpressionLength {
		return decimal.Zero, fmt.Errorf("%w: expression too long", model.ErrInvalidExpression)
	}
	expression = strings.NewReplacer("×", "*", "÷", "/", ",", ".").Replace(expression)

	p := &parser{input: []rune(expression)}
	value, err := p.expr()
	if err != nil {
		return decimal.Zero, err
	}

	p.skipSpace()
	if p.pos < len(p.input) {
		return decimal.Zero, fmt.Errorf("%w: unexpected %q", model.ErrInvalidExpression, p.input[p.pos])
	}

	return value, nil
}

// FormatResult renders a result the way the calculator display shows it.
func FormatResult(d decimal.Decimal) string {
	if d.IsInteger() {
		return d.String()
	}
	return d.Round(2).String()
}

type parser struct {
	input []rune
	pos   int
	depth int
}

func (p *parser) skipSpace() {
	for p.pos < len(p.input) && unicode.IsSpace(p.input[p.pos]) {
		p.pos++
	}
}

func (p *parser) peek() (rune, bool) {
	p.skipSpace()
	if p.pos >= len(p.input) {
		return 0, false
	}
	return p.input[p.pos], true
}

func (p *parser) expr() (decimal.Decimal, error) {
	left, err := p.term()
	if err != nil {
		return decimal.Zero, err
	}

	for {
		op, ok := p.peek()
		if !ok || (op != '+' && op != '-') {
			return left, nil
		}
		p.pos++

		right, err := p.term()
		if err != nil {
			return decimal.Zero, err
		}
		if op == '+' {
			left = left.Add(right)
		} else {
			left = left.Sub(right)
		}
	}
}

func (p *parser) term() (decimal.Decimal, error) {
	left, err := p.factor()
	if err != nil {
		return decimal.Zero, err
	}

	for {
		op, ok := p.peek()
		if !ok || (op != '*' && op != '/') {
			return left, nil
		}
		p.pos++

		right, err := p.factor()
		if err != nil {
			return decimal.Zero, err
		}
		if op == '*' {
			left = left.Mul(right)
			continue
		}
		if right.IsZero() {
			return decimal.Zero, fmt.Errorf("%w: division by zero", model.ErrInvalidExpression)
		}
		left = left.Div(right)
	}
}

func (p *parser) factor() (decimal.Decimal, error) {
	// Parentheses and unary signs both recurse here.
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxNesting {
		return decimal.Zero, fmt.Errorf("%w: nested too deeply", model.ErrInvalidExpression)
	}

	r, ok := p.peek()
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: unexpected end", model.ErrInvalidExpression)
	}

	switch {
	case r == '-' || r == '+':
		p.pos++
		value, err := p.factor()
		if err != nil {
			return decimal.Zero, err
		}
		if r == '-' {
			return value.Neg(), nil
		}
		return value, nil
	case r == '(':
		p.pos++
		value, err := p.expr()
		if err != nil {
			return decimal.Zero, err
		}
		if closing, ok := p.peek(); !ok || closing != ')' {
			return decimal.Zero, fmt.Errorf("%w: missing closing parenthesis", model.ErrInvalidExpression)
		}
		p.pos++
		return value, nil
	case unicode.IsDigit(r) || r == '.':
		return p.number()
	default:
		return decimal.Zero, fmt.Errorf("%w: unexpected %q", model.ErrInvalidExpression, r)
	}
}

func (p *parser) number() (decimal.Decimal, error) {
	start := p.pos
	for p.pos < len(p.input) && (unicode.IsDigit(p.input[p.pos]) || p.input[p.pos] == '.') {
		p.pos++
	}

	value, err := decimal.NewFromString(string(p.input[start:p.pos]))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: bad number %q", model.ErrInvalidExpression, string(p.input[start:p.pos]))
	}
	return value, nil
}
