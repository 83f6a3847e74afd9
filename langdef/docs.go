/*
Package langdef converts textual grammar description to grammar.Grammar structure.

Grammar is described using language that resembles EBNF. The language is defined in itself
(see Definition); Bootstrap returns the same grammar built directly, it is interpreted
by parser package to read descriptions.

Description consists of directives, includes, and rules:

	@@whitespace :: /[ \t]+/       # directive: regexp, string, or word value
	#include :: "common.ebnf"      # path is relative to the including file
	expr = term { op term } ;      # rule, the first rule is the start rule
	@override
	term = number | '(' ~ expr ')' ;
	signed < term = [ '-' ] ;      # based rule: base expression followed by own one
	list(sep, min=1) = ... ;       # rule parameters are stored in the model as is

Expressions, from the loosest binding:

	e1 | e2                ordered choice
	e1 e2                  sequence
	name:e  name+:e        named capture (the latter always makes a list)
	@:e  @+:e              rule value override
	&e  !e                 positive and negative lookahead
	~                      cut: commits the enclosing option
	[ e ]                  optional
	( e )                  group
	{ e }  { e }*          zero or more
	{ e }+                 one or more
	{ e }<2>  { e }<2,>  { e }<2,5>   bounded repetition
	>name                  includes rule body in place
	$                      end of input
	()                     matches nothing
	'x'  "x"               token, escape sequences are the same as in Go
	/re/                   RE2 regular expression, \/ stands for a slash
	name                   rule reference

Names of lexical rules start with underscore, whitespace and comments are not skipped inside them.

Comments are either (* block comments *) or line comments starting with # followed by a space.
Known directives are: grammar, whitespace, comments, eol_comments (regexp or None),
nameguard, ignorecase, memoize (boolean).

Markdown documents (loaded by FSLoader from files with .md extension) may contain several
grammar fragments in fenced code blocks with ebnf info string.
*/
package langdef
