package graph

import "strings"

// fragment is the part of the schema contributed by one entity.
type fragment struct {
	types     string
	queries   string
	mutations string
}

const sharedTypes = `
	schema {
		query: Query
		mutation: Mutation
	}

	directive @authenticate(returnType: String) on FIELD_DEFINITION
	directive @authorize(scope: String!, returnType: String) on FIELD_DEFINITION

	type Error {
		code: String!
		message: String!
		attrName: String
		row: Int
		moduleError: ModuleError
	}

	type ModuleError {
		code: String!
		message: String!
		attrNames: [String]
	}

	type ErrorResponse {
		errors: [Error]
	}
`

var bookFragment = fragment{
	types: `
	# model=Book
	type Book {
		# Unique identifier
		id: Int!
		title: String!
		yearPublished: String!
		genre: String
		author: AuthorResponse @authorize(scope: "author:read")
		createdAt: String!
		updatedAt: String!
	}

	input BookInput {
		title: String
		yearPublished: String
		genre: String
		authorId: ID
	}

	union BookResponse = Book | ErrorResponse
`,
	queries: `
		getBooks(filter: String): [BookResponse] @authorize(scope: "book:read", returnType: "array") @authenticate(returnType: "array")
		getBook(id: Int!): BookResponse @authorize(scope: "book:read") @authenticate
`,
	mutations: `
		addBook(data: BookInput!): BookResponse @authorize(scope: "book:add") @authenticate
		updateBook(id: Int!, data: BookInput!): BookResponse @authorize(scope: "book:update") @authenticate
		deleteBook(id: Int!): BookResponse @authorize(scope: "book:delete") @authenticate
`,
}

var authorFragment = fragment{
	types: `
	# model=Author
	type Author {
		# Unique identifier
		id: Int!
		name: String!
		country: String
		books: [BookResponse] @authorize(scope: "book:read", returnType: "array")
		createdAt: String!
		updatedAt: String!
	}

	input AuthorInput {
		name: String
		country: String
	}

	union AuthorResponse = Author | ErrorResponse
`,
	queries: `
		getAuthors(filter: String): [AuthorResponse] @authorize(scope: "author:read", returnType: "array") @authenticate(returnType: "array")
		getAuthor(id: Int!): AuthorResponse @authorize(scope: "author:read") @authenticate
`,
	mutations: `
		addAuthor(data: AuthorInput!): AuthorResponse @authorize(scope: "author:add") @authenticate
		updateAuthor(id: Int!, data: AuthorInput!): AuthorResponse @authorize(scope: "author:update") @authenticate
		deleteAuthor(id: Int!): AuthorResponse @authorize(scope: "author:delete") @authenticate
`,
}

// SchemaString concatenates the shared types and every entity fragment
// into one schema document.
func SchemaString() string {
	fragments := []fragment{bookFragment, authorFragment}

	var b strings.Builder
	b.WriteString(sharedTypes)
	for _, f := range fragments {
		b.WriteString(f.types)
	}

	b.WriteString("\n\ttype Query {")
	for _, f := range fragments {
		b.WriteString(f.queries)
	}
	b.WriteString("\t}\n")

	b.WriteString("\n\ttype Mutation {")
	for _, f := range fragments {
		b.WriteString(f.mutations)
	}
	b.WriteString("\t}\n")

	return b.String()
}
