package lower

import (
	"tinygo.org/x/go-llvm"

	"tabi/src/model"
)

// lowerExpr lowers an expression to its IR value (spec.md §4.4's "Expression lowering").
func (l *Lowerer) lowerExpr(e model.Expression) llvm.Value {
	switch ex := e.(type) {
	case *model.NullExpr:
		return llvm.ConstNull(l.intType())
	case *model.IntLit:
		return llvm.ConstInt(l.primitiveType(model.PInt), uint64(ex.Value), true)
	case *model.ShortLit:
		return llvm.ConstInt(l.primitiveType(model.PShort), uint64(ex.Value), true)
	case *model.LongLit:
		return llvm.ConstInt(l.primitiveType(model.PLong), uint64(ex.Value), true)
	case *model.SizeLit:
		return llvm.ConstInt(l.primitiveType(model.PSize), ex.Value, false)
	case *model.FloatLit:
		return llvm.ConstFloat(l.primitiveType(model.PFloat), float64(ex.Value))
	case *model.DoubleLit:
		return llvm.ConstFloat(l.primitiveType(model.PDouble), ex.Value)
	case *model.CharLit:
		return llvm.ConstInt(l.primitiveType(model.PChar), uint64(ex.Value), false)
	case *model.TruthLit:
		v := uint64(0)
		if ex.Value {
			v = 1
		}
		return llvm.ConstInt(l.primitiveType(model.PTruth), v, false)
	case *model.StringLit:
		return l.Builder.CreateGlobalStringPtr(ex.Value, l.Labeler.Next("str"))
	case *model.VariableValueExpr:
		if ex.Locate {
			return l.lowerRefLocate(ex.Ref)
		}
		return l.lowerRefValue(ex.Ref)
	case *model.FunctionCallExpr:
		return l.lowerCall(ex)
	case *model.BracketedExpr:
		return l.lowerExpr(ex.Inner)
	case *model.BinaryExpr:
		return l.lowerBinary(ex)
	default:
		return llvm.ConstNull(l.intType())
	}
}

// lowerExprAs lowers e the same way lowerExpr does, except a `null` literal (model.NullExpr) is
// given want's LLVM representation instead of the default int type. spec.md §4.3 admits None —
// the literal null — against any formal/declared type, so a null stored into an Address, Float,
// Truth, or table-field slot must carry that slot's own LLVM type or llvm.VerifyModule (spec.md
// §4.5) rejects the module. Every call site that stores/passes an expression into a slot whose
// model.Type is known ahead of time should lower through this rather than lowerExpr directly.
func (l *Lowerer) lowerExprAs(e model.Expression, want *model.Type) llvm.Value {
	if _, ok := e.(*model.NullExpr); ok && want != nil {
		return llvm.ConstNull(l.lowerType(want))
	}
	return l.lowerExpr(e)
}

// lowerCall lowers every argument (deep-copying any vector/collection argument that owns
// storage, spec.md §4.4's "Argument passing") then emits the call.
func (l *Lowerer) lowerCall(ex *model.FunctionCallExpr) llvm.Value {
	fn, _ := ex.Callee.Store.(llvm.Value)
	args := make([]llvm.Value, len(ex.Args))
	for i, a := range ex.Args {
		want := ex.Callee.ArgType(i)
		v := l.lowerExprAs(a, want)
		if want != nil && isDynamic(want) {
			v = l.deepCopyValue(v, want)
		}
		args[i] = v
	}
	if fn.IsNil() {
		return llvm.ConstNull(l.lowerType(ex.Callee.ReturnType))
	}
	name := ""
	if model.Resolve(ex.Callee.ReturnType) == nil || model.Resolve(ex.Callee.ReturnType).Kind != model.KindPrimitive || model.Resolve(ex.Callee.ReturnType).Primitive != model.PNone {
		name = l.Labeler.Next("call")
	}
	return l.Builder.CreateCall(fn, args, name)
}

// precedenceRank groups binary operators by spec.md §3's fixed low-to-high precedence order:
// `-`,`+` lowest, `*`,`/` next, the six comparisons highest.
func precedenceRank(op model.BinaryOp) int {
	switch op {
	case model.OpSub, model.OpAdd:
		return 0
	case model.OpMul, model.OpDiv:
		return 1
	default:
		return 2
	}
}

// lowerBinary lowers a binary expression, applying spec.md §4.4/§9's one-step local rotation: if
// the right operand is itself a binary whose operator has lower precedence than the current
// operator, the higher-precedence product (current-op applied to LHS and RHS's LHS) becomes the
// left child before RHS's own operator is applied on the outside.
func (l *Lowerer) lowerBinary(b *model.BinaryExpr) llvm.Value {
	if rb, ok := b.RHS.(*model.BinaryExpr); ok && precedenceRank(rb.Op) < precedenceRank(b.Op) {
		lhsVal := l.emitBinaryOp(b.Op, l.lowerExpr(b.LHS), l.lowerExpr(rb.LHS), b.Equiv)
		return l.emitBinaryOp(rb.Op, lhsVal, l.lowerExpr(rb.RHS), rb.Equiv)
	}
	return l.emitBinaryOp(b.Op, l.lowerExpr(b.LHS), l.lowerExpr(b.RHS), b.Equiv)
}

// emitBinaryOp picks the LLVM instruction family by the operand's primitive-equivalence class
// (spec.md §4.4: "signed integer for int/short/long/size/char, IEEE float for float/double;
// comparisons select signed-less/greater/equal/not-equal or the float-ordered variants").
func (l *Lowerer) emitBinaryOp(op model.BinaryOp, lhs, rhs llvm.Value, equiv model.EquivClass) llvm.Value {
	name := l.Labeler.Next("bin")
	isFloat := equiv == model.EquivFloat
	switch op {
	case model.OpAdd:
		if isFloat {
			return l.Builder.CreateFAdd(lhs, rhs, name)
		}
		return l.Builder.CreateAdd(lhs, rhs, name)
	case model.OpSub:
		if isFloat {
			return l.Builder.CreateFSub(lhs, rhs, name)
		}
		return l.Builder.CreateSub(lhs, rhs, name)
	case model.OpMul:
		if isFloat {
			return l.Builder.CreateFMul(lhs, rhs, name)
		}
		return l.Builder.CreateMul(lhs, rhs, name)
	case model.OpDiv:
		if isFloat {
			return l.Builder.CreateFDiv(lhs, rhs, name)
		}
		return l.Builder.CreateSDiv(lhs, rhs, name)
	case model.OpLT:
		if isFloat {
			return l.Builder.CreateFCmp(llvm.FloatOLT, lhs, rhs, name)
		}
		return l.Builder.CreateICmp(llvm.IntSLT, lhs, rhs, name)
	case model.OpGT:
		if isFloat {
			return l.Builder.CreateFCmp(llvm.FloatOGT, lhs, rhs, name)
		}
		return l.Builder.CreateICmp(llvm.IntSGT, lhs, rhs, name)
	case model.OpLTE:
		if isFloat {
			return l.Builder.CreateFCmp(llvm.FloatOLE, lhs, rhs, name)
		}
		return l.Builder.CreateICmp(llvm.IntSLE, lhs, rhs, name)
	case model.OpGTE:
		if isFloat {
			return l.Builder.CreateFCmp(llvm.FloatOGE, lhs, rhs, name)
		}
		return l.Builder.CreateICmp(llvm.IntSGE, lhs, rhs, name)
	case model.OpEQ:
		if isFloat {
			return l.Builder.CreateFCmp(llvm.FloatOEQ, lhs, rhs, name)
		}
		return l.Builder.CreateICmp(llvm.IntEQ, lhs, rhs, name)
	case model.OpNE:
		if isFloat {
			return l.Builder.CreateFCmp(llvm.FloatONE, lhs, rhs, name)
		}
		return l.Builder.CreateICmp(llvm.IntNE, lhs, rhs, name)
	default:
		return lhs
	}
}
