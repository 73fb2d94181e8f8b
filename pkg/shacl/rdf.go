//go:build go1.22

package shacl

const rdfType = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
