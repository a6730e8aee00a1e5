package syntax

// Node kind labels produced by the (external) grammar. The core never constructs these; it only
// matches them by name while walking a Node tree handed to it by the parser collaborator.
const (
	KindProgram     = "PROGRAM"
	KindAttachment  = "ATTACHMENT"
	KindLocalRef    = "LOCAL_REF"
	KindExternalRef = "EXTERNAL_REF"
	KindFunction    = "FUNCTION"
	KindExternFunc  = "EXTERN_FUNCTION"
	KindTypeDecl    = "TYPE_DECL"
	KindAliasDecl   = "ALIAS_DECL"
	KindContextDecl = "CONTEXT_DECL"
	KindDumpDecl    = "DUMP_DECL"

	KindMember     = "MEMBER"
	KindAddress    = "ADDRESS_TYPE"
	KindVectorType = "VECTOR_TYPE"
	KindTableType  = "TABLE_TYPE"
	KindNamedType  = "NAMED_TYPE"
	KindTableField = "TABLE_FIELD"

	KindArg          = "ARG"
	KindBlock        = "BLOCK"
	KindCaptures     = "CAPTURES"
	KindCapture      = "CAPTURE"
	KindReturnType   = "RETURN_TYPE"
	KindExternalName = "EXTERNAL_NAME"

	KindReturn        = "RETURN"
	KindStackedDecl   = "STACKED_DECL"
	KindHeapedDecl    = "HEAPED_DECL"
	KindAssignment    = "ASSIGNMENT"
	KindConditional   = "CONDITIONAL"
	KindBranch        = "BRANCH"
	KindTwig          = "TWIG"
	KindLoop          = "LOOP"
	KindProcedureCall = "PROCEDURE_CALL"
	KindVectorSet     = "VECTOR_SET"
	KindTableInsert   = "TABLE_INSERT"
	KindTableDelete   = "TABLE_DELETE"
	KindTableMeasure  = "TABLE_MEASURE"
	KindTableCrunch   = "TABLE_CRUNCH"
	KindLabel         = "LABEL"
	KindUnheap        = "UNHEAP"

	KindNull          = "NULL"
	KindIntLit        = "INT_LIT"
	KindShortLit      = "SHORT_LIT"
	KindLongLit       = "LONG_LIT"
	KindSizeLit       = "SIZE_LIT"
	KindFloatLit      = "FLOAT_LIT"
	KindDoubleLit     = "DOUBLE_LIT"
	KindCharLit       = "CHAR_LIT"
	KindTruthLit      = "TRUTH_LIT"
	KindStringLit     = "STRING_LIT"
	KindVariableValue = "VARIABLE_VALUE"
	KindFunctionCall  = "FUNCTION_CALL"
	KindBracketed     = "BRACKETED"
	KindBinary        = "BINARY"

	KindVariableRef      = "VARIABLE_REF"
	KindMemberRef        = "MEMBER_REF"
	KindElementRef       = "ELEMENT_REF"
	KindRowRef           = "ROW_REF"
	KindQueryRef         = "QUERY_REF"
	KindContextQualifier = "CONTEXT_QUALIFIER"
	KindDumpQualifier    = "DUMP_QUALIFIER"
)
