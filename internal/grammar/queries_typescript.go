package grammar

// TypeScript and TSX share node names for everything the queries touch.

const typeScriptCursorQuery = `
((identifier) @identifier @range)
((type_identifier) @identifier @range)
(call_expression function: (identifier) @identifier) @range
(new_expression constructor: (identifier) @identifier) @range
(function_declaration
  parameters: (formal_parameters
    (required_parameter type: (type_annotation (type_identifier) @identifier)))) @range
(arrow_function
  parameters: (formal_parameters
    (required_parameter type: (type_annotation (type_identifier) @identifier)))) @range
(method_definition
  parameters: (formal_parameters
    (required_parameter type: (type_annotation (type_identifier) @identifier)))) @range
`

const typeScriptRelatedQuery = `
(function_declaration
  name: (identifier) @name
  parameters: (formal_parameters
    (required_parameter type: (type_annotation (type_identifier) @related))))
(function_declaration
  name: (identifier) @name
  parameters: (formal_parameters
    (optional_parameter type: (type_annotation (type_identifier) @related))))
(function_declaration
  name: (identifier) @name
  parameters: (formal_parameters
    (required_parameter type: (type_annotation (generic_type name: (type_identifier) @related)))))
(function_declaration
  name: (identifier) @name
  return_type: (type_annotation (type_identifier) @related))
(function_declaration
  name: (identifier) @name
  return_type: (type_annotation (generic_type name: (type_identifier) @related)))
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
  parameters: (formal_parameters
    (required_parameter type: (type_annotation (type_identifier) @related))))
(method_definition
  name: (property_identifier) @name
  return_type: (type_annotation (type_identifier) @related))
(method_definition
  name: (property_identifier) @name
  body: (statement_block
    (expression_statement (call_expression function: (identifier) @related))))
(method_definition
  name: (property_identifier) @name
  body: (statement_block
    (return_statement (call_expression function: (identifier) @related))))
(class_declaration
  name: (type_identifier) @name
  (class_heritage (extends_clause (identifier) @related)))
(class_declaration
  name: (type_identifier) @name
  (class_heritage (implements_clause (type_identifier) @related)))
(type_alias_declaration
  name: (type_identifier) @name
  value: (type_identifier) @related)
(type_alias_declaration
  name: (type_identifier) @name
  value: (union_type (type_identifier) @related))
(type_alias_declaration
  name: (type_identifier) @name
  value: (generic_type name: (type_identifier) @related))
(variable_declarator
  name: (identifier) @name
  type: (type_annotation (type_identifier) @related))
(variable_declarator
  name: (identifier) @name
  value: (call_expression function: (identifier) @related))
(variable_declarator
  name: (identifier) @name
  value: (new_expression constructor: (identifier) @related))
`

const typeScriptTagsQuery = `
(function_declaration name: (identifier) @name) @definition.function
(generator_function_declaration name: (identifier) @name) @definition.function
(class_declaration name: (type_identifier) @name) @definition.class
(abstract_class_declaration name: (type_identifier) @name) @definition.class
(interface_declaration name: (type_identifier) @name) @definition.interface
(type_alias_declaration name: (type_identifier) @name) @definition.type
(enum_declaration name: (identifier) @name) @definition.enum
(method_definition name: (property_identifier) @name) @definition.method
(lexical_declaration (variable_declarator name: (identifier) @name)) @definition.variable
(identifier) @reference
(type_identifier) @reference
`
