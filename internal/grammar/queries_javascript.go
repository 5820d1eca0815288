package grammar

const javaScriptCursorQuery = `
((identifier) @identifier @range)
(call_expression function: (identifier) @identifier) @range
(new_expression constructor: (identifier) @identifier) @range
`

const javaScriptRelatedQuery = `
(function_declaration
  name: (identifier) @name
  body: (statement_block
    (expression_statement (call_expression function: (identifier) @related))))
(function_declaration
  name: (identifier) @name
  body: (statement_block
    (return_statement (call_expression function: (identifier) @related))))
(function_declaration
  name: (identifier) @name
  body: (statement_block
    (return_statement (new_expression constructor: (identifier) @related))))
(function_declaration
  name: (identifier) @name
  body: (statement_block
    (lexical_declaration (variable_declarator value: (call_expression function: (identifier) @related)))))
(method_definition
  name: (property_identifier) @name
  body: (statement_block
    (expression_statement (call_expression function: (identifier) @related))))
(method_definition
  name: (property_identifier) @name
  body: (statement_block
    (return_statement (call_expression function: (identifier) @related))))
(class_declaration
  name: (identifier) @name
  (class_heritage (identifier) @related))
(variable_declarator
  name: (identifier) @name
  value: (call_expression function: (identifier) @related))
(variable_declarator
  name: (identifier) @name
  value: (new_expression constructor: (identifier) @related))
`

const javaScriptTagsQuery = `
(function_declaration name: (identifier) @name) @definition.function
(generator_function_declaration name: (identifier) @name) @definition.function
(class_declaration name: (identifier) @name) @definition.class
(method_definition name: (property_identifier) @name) @definition.method
(lexical_declaration (variable_declarator name: (identifier) @name)) @definition.variable
(variable_declaration (variable_declarator name: (identifier) @name)) @definition.variable
(identifier) @reference
`
