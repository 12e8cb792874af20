package python

// keywords are Python's reserved words, soft keywords included.
var keywords = map[string]bool{
	"False": true, "None": true, "True": true, "and": true, "as": true,
	"assert": true, "async": true, "await": true, "break": true, "class": true,
	"continue": true, "def": true, "del": true, "elif": true, "else": true,
	"except": true, "finally": true, "for": true, "from": true, "global": true,
	"if": true, "import": true, "in": true, "is": true, "lambda": true,
	"nonlocal": true, "not": true, "or": true, "pass": true, "raise": true,
	"return": true, "try": true, "while": true, "with": true, "yield": true,
	"match": true, "case": true, "type": true,
}

// builtins are the names in Python's builtins module that an endpoint
// argument could plausibly shadow.
var builtins = map[string]bool{
	"abs": true, "aiter": true, "all": true, "anext": true, "any": true,
	"ascii": true, "bin": true, "bool": true, "breakpoint": true, "bytearray": true,
	"bytes": true, "callable": true, "chr": true, "classmethod": true, "compile": true,
	"complex": true, "copyright": true, "credits": true, "delattr": true, "dict": true,
	"dir": true, "divmod": true, "enumerate": true, "eval": true, "exec": true,
	"exit": true, "filter": true, "float": true, "format": true, "frozenset": true,
	"getattr": true, "globals": true, "hasattr": true, "hash": true, "help": true,
	"hex": true, "id": true, "input": true, "int": true, "isinstance": true,
	"issubclass": true, "iter": true, "len": true, "license": true, "list": true,
	"locals": true, "map": true, "max": true, "memoryview": true, "min": true,
	"next": true, "object": true, "oct": true, "open": true, "ord": true,
	"pow": true, "print": true, "property": true, "quit": true, "range": true,
	"repr": true, "reversed": true, "round": true, "set": true, "setattr": true,
	"slice": true, "sorted": true, "staticmethod": true, "str": true, "sum": true,
	"super": true, "tuple": true, "type": true, "vars": true, "zip": true,
	"__import__": true, "__build_class__": true, "__debug__": true, "__doc__": true,
	"__loader__": true, "__name__": true, "__package__": true, "__spec__": true,
	"Ellipsis": true, "NotImplemented": true,
	"BaseException": true, "Exception": true, "ArithmeticError": true,
	"AssertionError": true, "AttributeError": true, "EOFError": true,
	"ImportError": true, "IndexError": true, "KeyError": true, "LookupError": true,
	"NameError": true, "OSError": true, "RuntimeError": true, "StopIteration": true,
	"TypeError": true, "ValueError": true, "ZeroDivisionError": true,
}

// reservedArgs are names the generated endpoint signatures use themselves.
var reservedArgs = map[string]bool{"self": true, "request": true, "auth": true}

// collides reports whether an endpoint argument name would shadow a Python
// keyword, a builtin or a generated parameter.
func collides(name string) bool {
	return keywords[name] || builtins[name] || reservedArgs[name]
}
