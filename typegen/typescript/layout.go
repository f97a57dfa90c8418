package typescript

import "path"

// Output layout, relative to the configured output directory.
const (
	GeneratedDir  = "__generated__"
	ScalarsDir    = "scalars"
	InterfacesDir = "interfaces"
	ResolversDir  = "resolvers"

	SchemaFile         = GeneratedDir + "/schema.ts"
	ScalarsIndexFile   = GeneratedDir + "/scalars.ts"
	DispatchIndexFile  = GeneratedDir + "/dispatch.ts"
	ResolversIndexFile = GeneratedDir + "/resolvers.ts"
	ContextFile        = "context.ts"
	ModelsFile         = "models.ts"
)

// Import specifiers as seen from files inside GeneratedDir and the scaffold directories.
const (
	fromGeneratedToContext = "../context"
	fromGeneratedToModels  = "../models"
	fromScaffoldToSchema   = "../" + GeneratedDir + "/schema"
	fromIndexToSchema      = "./schema"
)

// ScalarFile returns the implementation file of a custom scalar.
func ScalarFile(name string) string { return path.Join(ScalarsDir, name+".ts") }

// InterfaceFile returns the dispatch implementation file of an interface or union.
func InterfaceFile(name string) string { return path.Join(InterfacesDir, name+".ts") }

// ResolverFile returns the resolver implementation file of an object type.
func ResolverFile(name string) string { return path.Join(ResolversDir, name+".ts") }

// fromGenerated returns the import specifier of a scaffold file seen from GeneratedDir.
func fromGenerated(file string) string {
	return "../" + trimExt(file)
}

func trimExt(file string) string {
	return file[:len(file)-len(path.Ext(file))]
}
