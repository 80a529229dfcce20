package unused

import (
	"reflect"
	"testing"

	"minisweep/pkg/parser"
)

func TestExtractScriptRefs(t *testing.T) {
	p := parser.New()
	defer p.Close()

	code := `
import util from './util';
import { a, b } from '../shared/ab';
import '/styles/side-effect';
export { c } from './reexport';
const x = require('./legacy');
const lazy = () => import('./lazy');
// import './commented-out';
const notARef = "./string-only";
`
	refs, err := ExtractScriptRefs(p, []byte(code), "a.js")
	if err != nil {
		t.Fatalf("ExtractScriptRefs failed: %v", err)
	}

	want := []string{
		"./util",
		"../shared/ab",
		"/styles/side-effect",
		"./reexport",
		"./legacy",
		"./lazy",
	}
	if !reflect.DeepEqual(refs, want) {
		t.Errorf("refs = %v, want %v", refs, want)
	}
}

func TestExtractScriptRefsTypeScript(t *testing.T) {
	p := parser.New()
	defer p.Close()

	code := `
import type { Foo } from './types';
import svc from './service';
export * from './barrel';
`
	refs, err := ExtractScriptRefs(p, []byte(code), "a.ts")
	if err != nil {
		t.Fatalf("ExtractScriptRefs failed: %v", err)
	}

	want := []string{"./types", "./service", "./barrel"}
	if !reflect.DeepEqual(refs, want) {
		t.Errorf("refs = %v, want %v", refs, want)
	}
}

func TestExtractScriptRefsDynamicSpecifierSkipped(t *testing.T) {
	p := parser.New()
	defer p.Close()

	code := "const name = 'x';\nconst m = require(`./pages/${name}`);\nconst n = require(name);\n"
	refs, err := ExtractScriptRefs(p, []byte(code), "a.js")
	if err != nil {
		t.Fatalf("ExtractScriptRefs failed: %v", err)
	}
	if len(refs) != 0 {
		t.Errorf("refs = %v, want none for non-static specifiers", refs)
	}
}

func TestExtractScriptRefsEmpty(t *testing.T) {
	p := parser.New()
	defer p.Close()

	refs, err := ExtractScriptRefs(p, []byte("const a = 1;\n"), "a.js")
	if err != nil {
		t.Fatalf("ExtractScriptRefs failed: %v", err)
	}
	if len(refs) != 0 {
		t.Errorf("refs = %v, want none", refs)
	}
}
