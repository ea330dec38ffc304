//go:build !scanedit_debug

package document

const strictInvariants = false
