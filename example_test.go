package cmf_test

import (
	"fmt"
	"os"
	"testing/fstest"

	"github.com/jacoelho/cmf"
	"github.com/jacoelho/cmf/refgraph"
)

func ExampleReadFS() {
	fsys := fstest.MapFS{
		"core.cmf": &fstest.MapFile{Data: []byte(coreDoc)},
	}

	m, err := cmf.ReadFS(fsys, "core.cmf")
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	p := m.PropertyByQName("nc:PersonName")
	fmt.Println(m.URI(p))
	// Output: http://example/nc/PersonName
}

func ExampleWrite() {
	fsys := fstest.MapFS{
		"core.cmf": &fstest.MapFile{Data: []byte(coreDoc)},
	}
	m, err := cmf.ReadFS(fsys, "core.cmf")
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	if err := cmf.Write(os.Stdout, m, cmf.NewWriteOptions().WithNamespaces("nc")); err != nil {
		fmt.Printf("Error: %v\n", err)
	}
	// Output:
	// <?xml version="1.0" encoding="UTF-8"?>
	// <Model xmlns="https://docs.oasis-open.org/niemopen/ns/specification/cmf/1.0/" xmlns:structures="https://docs.oasis-open.org/niemopen/ns/model/structures/6.0/">
	//   <Namespace structures:id="nc">
	//     <NamespaceURI>http://example/nc/</NamespaceURI>
	//     <NamespacePrefixText>nc</NamespacePrefixText>
	//   </Namespace>
	//   <DataProperty structures:id="nc.PersonName">
	//     <Name>PersonName</Name>
	//     <Namespace structures:ref="nc"></Namespace>
	//     <Datatype structures:uri="http://www.w3.org/2001/XMLSchema#string"></Datatype>
	//   </DataProperty>
	// </Model>
}

func ExampleRead_closure() {
	m, err := cmf.Read(cmf.NewReadOptions(),
		cmf.BytesDocument("core.cmf", []byte(coreDoc)),
		cmf.BytesDocument("ext.cmf", []byte(extDoc)))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	g := refgraph.Build(m)
	ext := m.NamespaceByPrefix("ext")
	fmt.Println(g.Prefixes(g.Closure(ext.ID)))
	// Output: [ext nc]
}
