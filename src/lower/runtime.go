package lower

import "tinygo.org/x/go-llvm"

// runtimeFuncs holds the IR declarations for the fixed set of runtime helpers (spec.md §4.4),
// grounded on original_source's TabiCore table: core_alloc, core_dealloc, core_memcpy and the
// table row-management family, plus the two LLVM stack intrinsics spec.md §5/§9 rely on for
// scoped stack restoration.
type runtimeFuncs struct {
	alloc   llvm.Value // ptr core_alloc(int)
	dealloc llvm.Value // void core_dealloc(ptr)
	memcpy  llvm.Value // void core_memcpy(ptr, ptr, int)

	// Every core_table_* helper after the table pointer takes the column count (nFields) as its
	// first int argument, matching core_table_init's own signature, so the runtime can always
	// navigate the table's column-pointer layout the same way.
	tableInit        llvm.Value // void core_table_init(table, nFields)
	tableInsertRow   llvm.Value // int core_table_insertRow(table, nFields, idOut) -> rowIndex
	tableGetRowByID  llvm.Value // int core_table_getRowByID(table, nFields, id) -> rowIndex
	tableDeleteByID  llvm.Value // void core_table_deleteRowByID(table, nFields, id)
	tableGetNumUsed  llvm.Value // int core_table_getNumUsed(table, nFields) -> used
	tableCrunch      llvm.Value // void core_table_crunch(table, nFields, reserved, remap, usedOut)
	stackSave        llvm.Value // ptr llvm.stacksave()
	stackRestore     llvm.Value // void llvm.stackrestore(ptr)
}

// declareRuntime adds every runtime helper as an external declaration to the root module. Every
// other module's calls to these symbols are resolved by the linker against the runtime library
// (spec.md §5: "tabi_std_cross and tabi_core_cross").
func declareRuntime(ctx llvm.Context, m llvm.Module, i llvm.Type) runtimeFuncs {
	ptr := llvm.PointerType(ctx.Int8Type(), 0)
	ptrOfPtrs := llvm.PointerType(ptr, 0)
	ptrToInt := llvm.PointerType(i, 0)
	void := ctx.VoidType()

	declare := func(name string, ret llvm.Type, params ...llvm.Type) llvm.Value {
		return llvm.AddFunction(m, name, llvm.FunctionType(ret, params, false))
	}

	return runtimeFuncs{
		alloc:           declare("core_alloc", ptr, i),
		dealloc:         declare("core_dealloc", void, ptr),
		memcpy:          declare("core_memcpy", void, ptr, ptr, i),
		tableInit:       declare("core_table_init", void, ptrOfPtrs, i),
		tableInsertRow:  declare("core_table_insertRow", i, ptrOfPtrs, i, ptrToInt),
		tableGetRowByID: declare("core_table_getRowByID", i, ptrOfPtrs, i, i),
		tableDeleteByID: declare("core_table_deleteRowByID", void, ptrOfPtrs, i, i),
		tableGetNumUsed: declare("core_table_getNumUsed", i, ptrOfPtrs, i),
		tableCrunch:     declare("core_table_crunch", void, ptrOfPtrs, i, i, ptrToInt, ptrToInt),
		stackSave:       declare("llvm.stacksave", ptr),
		stackRestore:    declare("llvm.stackrestore", void, ptr),
	}
}
