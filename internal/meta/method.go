package meta

// Method is a compiled method within a Universe. Methods are interned like
// types: pointer equality is identity.
type Method struct {
	name      string
	declaring *Type
}

// Name returns the unqualified method name.
func (m *Method) Name() string { return m.name }

// Declaring returns the type that declares the method.
func (m *Method) Declaring() *Type { return m.declaring }

// QualifiedName returns "DeclaringType.name", the key used by universe files
// and scenario files.
func (m *Method) QualifiedName() string { return m.declaring.Name() + "." + m.name }
