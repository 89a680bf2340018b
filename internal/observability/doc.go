// Package observability builds the structured loggers shared by the router,
// the PSP simulator and the pspctl tool.
package observability
