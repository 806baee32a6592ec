package handler

type ContextKey string

var (
	AccountCtx  ContextKey = "account"
	EngineCtx   ContextKey = "engine"
	StaffCtx    ContextKey = "staff"
	RoleCtx     ContextKey = "role"
	TemplateCtx ContextKey = "template"
)
