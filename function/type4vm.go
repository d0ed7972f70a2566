// seehuhn.de/go/pdfcolor - resolve and evaluate PDF color spaces
// Copyright (C) 2025  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package function

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// The PostScript calculator is implemented in two stages: compile
// translates the program text into a flat list of instructions, where
// "if" and "ifelse" become conditional jumps, and machine.run executes
// the instructions on an operand stack.

type opCode uint8

const (
	opPush opCode = iota
	opJumpIfFalse
	opJump

	opAbs
	opAdd
	opAtan
	opCeiling
	opCos
	opCvi
	opCvr
	opDiv
	opExp
	opFloor
	opIdiv
	opLn
	opLog
	opMod
	opMul
	opNeg
	opRound
	opSin
	opSqrt
	opSub
	opTruncate

	opAnd
	opBitshift
	opEq
	opGe
	opGt
	opLe
	opLt
	opNe
	opNot
	opOr
	opXor

	opCopy
	opDup
	opExch
	opIndex
	opPop
	opRoll
)

var operators = map[string]opCode{
	"abs": opAbs, "add": opAdd, "atan": opAtan, "ceiling": opCeiling,
	"cos": opCos, "cvi": opCvi, "cvr": opCvr, "div": opDiv, "exp": opExp,
	"floor": opFloor, "idiv": opIdiv, "ln": opLn, "log": opLog,
	"mod": opMod, "mul": opMul, "neg": opNeg, "round": opRound,
	"sin": opSin, "sqrt": opSqrt, "sub": opSub, "truncate": opTruncate,

	"and": opAnd, "bitshift": opBitshift, "eq": opEq, "ge": opGe,
	"gt": opGt, "le": opLe, "lt": opLt, "ne": opNe, "not": opNot,
	"or": opOr, "xor": opXor,

	"copy": opCopy, "dup": opDup, "exch": opExch, "index": opIndex,
	"pop": opPop, "roll": opRoll,
}

type instruction struct {
	op  opCode
	arg psValue // the value for opPush
	n   int     // the jump distance for opJumpIfFalse and opJump
}

type psKind uint8

const (
	psInt psKind = iota
	psReal
	psBool
)

// psValue is an element of the operand stack.  Integer and boolean values
// are stored in x as well; booleans use 1 for true and 0 for false.
type psValue struct {
	kind psKind
	x    float64
}

func intValue(n int64) psValue    { return psValue{kind: psInt, x: float64(n)} }
func realValue(x float64) psValue { return psValue{kind: psReal, x: x} }
func boolValue(b bool) psValue {
	if b {
		return psValue{kind: psBool, x: 1}
	}
	return psValue{kind: psBool}
}

// compile translates a calculator program, without the enclosing braces,
// into a list of instructions.
func compile(program string) ([]instruction, error) {
	c := &compiler{src: program}
	code, err := c.block(false)
	if err != nil {
		return nil, err
	}
	return code, nil
}

type compiler struct {
	src string
	pos int
}

// block compiles instructions up to the closing brace (if nested is
// true) or up to the end of the program.
func (c *compiler) block(nested bool) ([]instruction, error) {
	var code []instruction
	var procs [][]instruction
	for {
		tok, ok := c.next()
		if !ok {
			if nested {
				return nil, errors.New("unterminated procedure")
			}
			break
		}

		switch tok {
		case "{":
			proc, err := c.block(true)
			if err != nil {
				return nil, err
			}
			procs = append(procs, proc)
			continue
		case "}":
			if !nested {
				return nil, errors.New("unexpected '}'")
			}
			if len(procs) > 0 {
				return nil, errors.New("procedure not followed by if or ifelse")
			}
			return code, nil
		case "if":
			if len(procs) != 1 {
				return nil, errors.New("if needs exactly one procedure")
			}
			body := procs[0]
			code = append(code, instruction{op: opJumpIfFalse, n: len(body)})
			code = append(code, body...)
			procs = procs[:0]
			continue
		case "ifelse":
			if len(procs) != 2 {
				return nil, errors.New("ifelse needs exactly two procedures")
			}
			yes, no := procs[0], procs[1]
			code = append(code, instruction{op: opJumpIfFalse, n: len(yes) + 1})
			code = append(code, yes...)
			code = append(code, instruction{op: opJump, n: len(no)})
			code = append(code, no...)
			procs = procs[:0]
			continue
		}

		if len(procs) > 0 {
			return nil, errors.New("procedure not followed by if or ifelse")
		}
		inst, err := compileToken(tok)
		if err != nil {
			return nil, err
		}
		code = append(code, inst)
	}

	if len(procs) > 0 {
		return nil, errors.New("procedure not followed by if or ifelse")
	}
	return code, nil
}

func compileToken(tok string) (instruction, error) {
	switch tok {
	case "true":
		return instruction{op: opPush, arg: boolValue(true)}, nil
	case "false":
		return instruction{op: opPush, arg: boolValue(false)}, nil
	}
	if op, ok := operators[tok]; ok {
		return instruction{op: op}, nil
	}
	if n, err := strconv.ParseInt(tok, 10, 32); err == nil {
		return instruction{op: opPush, arg: intValue(n)}, nil
	}
	if x, err := strconv.ParseFloat(tok, 64); err == nil && isFinite(x) {
		return instruction{op: opPush, arg: realValue(x)}, nil
	}
	return instruction{}, fmt.Errorf("unknown operator %q", tok)
}

// next returns the next token of the program.
func (c *compiler) next() (string, bool) {
	for c.pos < len(c.src) {
		ch := c.src[c.pos]
		if ch == '%' {
			for c.pos < len(c.src) && c.src[c.pos] != '\n' && c.src[c.pos] != '\r' {
				c.pos++
			}
		} else if isPSSpace(ch) {
			c.pos++
		} else {
			break
		}
	}
	if c.pos >= len(c.src) {
		return "", false
	}

	start := c.pos
	if ch := c.src[c.pos]; ch == '{' || ch == '}' {
		c.pos++
		return c.src[start:c.pos], true
	}
	for c.pos < len(c.src) {
		ch := c.src[c.pos]
		if isPSSpace(ch) || ch == '{' || ch == '}' || ch == '%' {
			break
		}
		c.pos++
	}
	return c.src[start:c.pos], true
}

func isPSSpace(ch byte) bool {
	switch ch {
	case ' ', '\t', '\n', '\r', '\f', 0:
		return true
	}
	return false
}

// maxStackDepth is the operand stack limit for calculator functions.
const maxStackDepth = 100

var (
	errStackUnderflow = errors.New("stack underflow")
	errStackOverflow  = errors.New("stack overflow")
	errTypeCheck      = errors.New("type check")
	errRangeCheck     = errors.New("range check")
	errUndefResult    = errors.New("undefined result")
)

// machine executes compiled calculator programs.  Once an error occurs,
// err is set and all further operations are ignored.
type machine struct {
	stack []psValue
	err   error
}

func (vm *machine) push(v psValue) {
	if vm.err != nil {
		return
	}
	if len(vm.stack) >= maxStackDepth {
		vm.err = errStackOverflow
		return
	}
	vm.stack = append(vm.stack, v)
}

func (vm *machine) pop() psValue {
	if vm.err != nil {
		return psValue{}
	}
	k := len(vm.stack)
	if k == 0 {
		vm.err = errStackUnderflow
		return psValue{}
	}
	v := vm.stack[k-1]
	vm.stack = vm.stack[:k-1]
	return v
}

func (vm *machine) popNumber() psValue {
	v := vm.pop()
	if vm.err == nil && v.kind == psBool {
		vm.err = errTypeCheck
	}
	return v
}

func (vm *machine) popInt() int64 {
	v := vm.pop()
	if vm.err == nil && v.kind != psInt {
		vm.err = errTypeCheck
	}
	return int64(v.x)
}

func (vm *machine) popBool() bool {
	v := vm.pop()
	if vm.err == nil && v.kind != psBool {
		vm.err = errTypeCheck
	}
	return v.x != 0
}

// pushNumber pushes the result of an arithmetic operation.  The result is
// an integer if both operands were integers and the value is representable.
func (vm *machine) pushNumber(x float64, isInt bool) {
	if isInt && x >= math.MinInt32 && x <= math.MaxInt32 {
		vm.push(intValue(int64(x)))
	} else {
		vm.push(realValue(x))
	}
}

func (vm *machine) run(code []instruction) {
	for pc := 0; pc < len(code) && vm.err == nil; pc++ {
		inst := code[pc]
		switch inst.op {
		case opPush:
			vm.push(inst.arg)
		case opJumpIfFalse:
			if !vm.popBool() {
				pc += inst.n
			}
		case opJump:
			pc += inst.n
		default:
			vm.apply(inst.op)
		}
	}
}

func (vm *machine) apply(op opCode) {
	switch op {
	case opAdd, opSub, opMul:
		b := vm.popNumber()
		a := vm.popNumber()
		var x float64
		switch op {
		case opAdd:
			x = a.x + b.x
		case opSub:
			x = a.x - b.x
		case opMul:
			x = a.x * b.x
		}
		vm.pushNumber(x, a.kind == psInt && b.kind == psInt)
	case opDiv:
		b := vm.popNumber()
		a := vm.popNumber()
		if vm.err == nil && b.x == 0 {
			vm.err = errUndefResult
		}
		vm.push(realValue(a.x / b.x))
	case opIdiv, opMod:
		b := vm.popInt()
		a := vm.popInt()
		if vm.err == nil && b == 0 {
			vm.err = errUndefResult
			return
		}
		if op == opIdiv {
			vm.push(intValue(a / b))
		} else {
			vm.push(intValue(a % b))
		}
	case opAbs, opNeg, opCeiling, opFloor, opRound, opTruncate:
		a := vm.popNumber()
		var x float64
		switch op {
		case opAbs:
			x = math.Abs(a.x)
		case opNeg:
			x = -a.x
		case opCeiling:
			x = math.Ceil(a.x)
		case opFloor:
			x = math.Floor(a.x)
		case opRound:
			x = math.Floor(a.x + 0.5)
		case opTruncate:
			x = math.Trunc(a.x)
		}
		vm.pushNumber(x, a.kind == psInt)
	case opSqrt:
		a := vm.popNumber()
		if vm.err == nil && a.x < 0 {
			vm.err = errRangeCheck
		}
		vm.push(realValue(math.Sqrt(a.x)))
	case opSin, opCos:
		a := vm.popNumber()
		rad := a.x * math.Pi / 180
		if op == opSin {
			vm.push(realValue(math.Sin(rad)))
		} else {
			vm.push(realValue(math.Cos(rad)))
		}
	case opAtan:
		den := vm.popNumber()
		num := vm.popNumber()
		if vm.err == nil && num.x == 0 && den.x == 0 {
			vm.err = errUndefResult
		}
		deg := math.Atan2(num.x, den.x) * 180 / math.Pi
		if deg < 0 {
			deg += 360
		}
		vm.push(realValue(deg))
	case opExp:
		e := vm.popNumber()
		base := vm.popNumber()
		vm.push(realValue(math.Pow(base.x, e.x)))
	case opLn, opLog:
		a := vm.popNumber()
		if vm.err == nil && a.x <= 0 {
			vm.err = errRangeCheck
		}
		if op == opLn {
			vm.push(realValue(math.Log(a.x)))
		} else {
			vm.push(realValue(math.Log10(a.x)))
		}
	case opCvi:
		a := vm.popNumber()
		x := math.Trunc(a.x)
		if vm.err == nil && (x < math.MinInt32 || x > math.MaxInt32) {
			vm.err = errRangeCheck
		}
		vm.push(intValue(int64(x)))
	case opCvr:
		a := vm.popNumber()
		vm.push(realValue(a.x))

	case opEq, opNe:
		b := vm.pop()
		a := vm.pop()
		equal := a.x == b.x && (a.kind == psBool) == (b.kind == psBool)
		vm.push(boolValue(equal == (op == opEq)))
	case opGe, opGt, opLe, opLt:
		b := vm.popNumber()
		a := vm.popNumber()
		var res bool
		switch op {
		case opGe:
			res = a.x >= b.x
		case opGt:
			res = a.x > b.x
		case opLe:
			res = a.x <= b.x
		case opLt:
			res = a.x < b.x
		}
		vm.push(boolValue(res))
	case opAnd, opOr, opXor:
		b := vm.pop()
		a := vm.pop()
		if vm.err != nil {
			return
		}
		switch {
		case a.kind == psBool && b.kind == psBool:
			p, q := a.x != 0, b.x != 0
			switch op {
			case opAnd:
				vm.push(boolValue(p && q))
			case opOr:
				vm.push(boolValue(p || q))
			case opXor:
				vm.push(boolValue(p != q))
			}
		case a.kind == psInt && b.kind == psInt:
			p, q := int64(a.x), int64(b.x)
			switch op {
			case opAnd:
				vm.push(intValue(p & q))
			case opOr:
				vm.push(intValue(p | q))
			case opXor:
				vm.push(intValue(p ^ q))
			}
		default:
			vm.err = errTypeCheck
		}
	case opNot:
		a := vm.pop()
		switch {
		case vm.err != nil:
		case a.kind == psBool:
			vm.push(boolValue(a.x == 0))
		case a.kind == psInt:
			vm.push(intValue(^int64(a.x)))
		default:
			vm.err = errTypeCheck
		}
	case opBitshift:
		shift := vm.popInt()
		a := vm.popInt()
		x := uint32(a)
		if shift >= 32 || shift <= -32 {
			x = 0
		} else if shift >= 0 {
			x <<= uint(shift)
		} else {
			x >>= uint(-shift)
		}
		vm.push(intValue(int64(int32(x))))

	case opDup:
		a := vm.pop()
		vm.push(a)
		vm.push(a)
	case opExch:
		b := vm.pop()
		a := vm.pop()
		vm.push(b)
		vm.push(a)
	case opPop:
		vm.pop()
	case opCopy:
		n := vm.popInt()
		if vm.err == nil && (n < 0 || n > int64(len(vm.stack))) {
			vm.err = errRangeCheck
		}
		if vm.err != nil {
			return
		}
		top := vm.stack[len(vm.stack)-int(n):]
		for _, v := range top {
			vm.push(v)
		}
	case opIndex:
		n := vm.popInt()
		if vm.err == nil && (n < 0 || n >= int64(len(vm.stack))) {
			vm.err = errRangeCheck
		}
		if vm.err != nil {
			return
		}
		vm.push(vm.stack[len(vm.stack)-1-int(n)])
	case opRoll:
		j := vm.popInt()
		n := vm.popInt()
		if vm.err == nil && (n < 0 || n > int64(len(vm.stack))) {
			vm.err = errRangeCheck
		}
		if vm.err != nil || n == 0 {
			return
		}
		part := vm.stack[len(vm.stack)-int(n):]
		shift := int(((j % n) + n) % n)
		rotated := append(append([]psValue{}, part[len(part)-shift:]...), part[:len(part)-shift]...)
		copy(part, rotated)
	}
}
