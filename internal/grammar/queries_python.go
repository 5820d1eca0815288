package grammar

const pythonCursorQuery = `
((identifier) @identifier @range)
(call function: (identifier) @identifier) @range
(call function: (attribute attribute: (identifier) @identifier)) @range
(function_definition
  parameters: (parameters (typed_parameter type: (type (identifier) @identifier)))) @range
`

const pythonRelatedQuery = `
(class_definition
  name: (identifier) @name
  superclasses: (argument_list (identifier) @related))
(function_definition
  name: (identifier) @name
  parameters: (parameters (typed_parameter type: (type (identifier) @related))))
(function_definition
  name: (identifier) @name
  parameters: (parameters (typed_default_parameter type: (type (identifier) @related))))
(function_definition
  name: (identifier) @name
  return_type: (type (identifier) @related))
(function_definition
  name: (identifier) @name
  body: (block (expression_statement (call function: (identifier) @related))))
(function_definition
  name: (identifier) @name
  body: (block (return_statement (call function: (identifier) @related))))
(function_definition
  name: (identifier) @name
  body: (block (expression_statement (assignment right: (call function: (identifier) @related)))))
`

const pythonTagsQuery = `
(function_definition name: (identifier) @name) @definition.function
(class_definition name: (identifier) @name) @definition.class
(module (expression_statement (assignment left: (identifier) @name)) @definition.variable)
(identifier) @reference
`
