package automata

import "fmt"

// PostfixSink consumes the postfix stream the shunting-yard loop emits.
// Swapping the sink reuses the same conversion for different consumers;
// the Thompson builder is the production sink and tests plug in a
// recording one.
type PostfixSink interface {
	Operand(t token) error
	Operator(t token) error
}

// opInfo describes one operator for the precedence loop.
type opInfo struct {
	arity      int
	precedence int
}

func operatorInfo(k tokenKind) (opInfo, bool) {
	switch k {
	case tokUnion:
		return opInfo{arity: 2, precedence: 1}, true
	case tokConcat:
		return opInfo{arity: 2, precedence: 2}, true
	case tokStar, tokPlus, tokOptional, tokRepeat:
		return opInfo{arity: 1, precedence: 3}, true
	}
	return opInfo{}, false
}

// shuntingYard converts the infix token stream to postfix, feeding sink.
// Unary operators are postfix in this grammar, so their operand has
// already been emitted when they are read and they go straight to the
// sink; the binary operators are left-associative.
func shuntingYard(tokens []token, sink PostfixSink) error {
	stack := make([]token, 0)
	for _, t := range tokens {
		switch t.kind {
		case tokSymbols:
			if err := sink.Operand(t); err != nil {
				return err
			}
		case tokLParen:
			stack = append(stack, t)
		case tokRParen:
			matched := false
			for len(stack) > 0 {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if top.kind == tokLParen {
					matched = true
					break
				}
				if err := sink.Operator(top); err != nil {
					return err
				}
			}
			if !matched {
				return fmt.Errorf("unmatched ')' at position %d", t.pos)
			}
		default:
			info, ok := operatorInfo(t.kind)
			if !ok {
				return fmt.Errorf("unexpected token at position %d", t.pos)
			}
			if info.arity == 1 {
				if err := sink.Operator(t); err != nil {
					return err
				}
				continue
			}
			for len(stack) > 0 {
				top := stack[len(stack)-1]
				if top.kind == tokLParen {
					break
				}
				if topInfo, _ := operatorInfo(top.kind); topInfo.precedence < info.precedence {
					break
				}
				if err := sink.Operator(top); err != nil {
					return err
				}
				stack = stack[:len(stack)-1]
			}
			stack = append(stack, t)
		}
	}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top.kind == tokLParen {
			return fmt.Errorf("unmatched '(' at position %d", top.pos)
		}
		if err := sink.Operator(top); err != nil {
			return err
		}
	}
	return nil
}
