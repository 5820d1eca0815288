package grammar

const goCursorQuery = `
((identifier) @identifier @range)
((type_identifier) @identifier @range)
((field_identifier) @identifier @range)
(call_expression function: (identifier) @identifier) @range
(call_expression function: (selector_expression field: (field_identifier) @identifier)) @range
(composite_literal type: (type_identifier) @identifier) @range
(function_declaration
  parameters: (parameter_list (parameter_declaration type: (type_identifier) @identifier))) @range
(function_declaration
  parameters: (parameter_list (parameter_declaration type: (pointer_type (type_identifier) @identifier)))) @range
(method_declaration
  receiver: (parameter_list (parameter_declaration type: (pointer_type (type_identifier) @identifier)))) @range
(method_declaration
  receiver: (parameter_list (parameter_declaration type: (type_identifier) @identifier))) @range
`

const goRelatedQuery = `
(function_declaration
  name: (identifier) @name
  parameters: (parameter_list (parameter_declaration type: (type_identifier) @related)))
(function_declaration
  name: (identifier) @name
  parameters: (parameter_list (parameter_declaration type: (pointer_type (type_identifier) @related))))
(function_declaration
  name: (identifier) @name
  result: (type_identifier) @related)
(function_declaration
  name: (identifier) @name
  result: (pointer_type (type_identifier) @related))
(function_declaration
  name: (identifier) @name
  result: (parameter_list (parameter_declaration type: (type_identifier) @related)))
(function_declaration
  name: (identifier) @name
  result: (parameter_list (parameter_declaration type: (pointer_type (type_identifier) @related))))
(method_declaration
  receiver: (parameter_list (parameter_declaration type: (pointer_type (type_identifier) @related)))
  name: (field_identifier) @name)
(method_declaration
  receiver: (parameter_list (parameter_declaration type: (type_identifier) @related))
  name: (field_identifier) @name)
(method_declaration
  name: (field_identifier) @name
  parameters: (parameter_list (parameter_declaration type: (type_identifier) @related)))
(method_declaration
  name: (field_identifier) @name
  parameters: (parameter_list (parameter_declaration type: (pointer_type (type_identifier) @related))))
(method_declaration
  name: (field_identifier) @name
  result: (type_identifier) @related)
(method_declaration
  name: (field_identifier) @name
  result: (pointer_type (type_identifier) @related))
(type_spec
  name: (type_identifier) @name
  type: (type_identifier) @related)
(type_spec
  name: (type_identifier) @name
  type: (struct_type
    (field_declaration_list (field_declaration type: (type_identifier) @related))))
(type_spec
  name: (type_identifier) @name
  type: (struct_type
    (field_declaration_list (field_declaration type: (pointer_type (type_identifier) @related)))))
(type_alias
  name: (type_identifier) @name
  type: (type_identifier) @related)
`

const goTagsQuery = `
(function_declaration name: (identifier) @name) @definition.function
(method_declaration name: (field_identifier) @name) @definition.method
(type_declaration (type_spec name: (type_identifier) @name)) @definition.type
(type_declaration (type_alias name: (type_identifier) @name)) @definition.type
(const_spec name: (identifier) @name) @definition.constant
(var_spec name: (identifier) @name) @definition.variable
(identifier) @reference
(type_identifier) @reference
(field_identifier) @reference
`
