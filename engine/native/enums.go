package native

// Enum is a native graphics API enumerant. Values match the OpenGL / OpenGL ES registry.
type Enum uint32

// Clear masks.
const (
	DEPTH_BUFFER_BIT   Enum = 0x00000100
	STENCIL_BUFFER_BIT Enum = 0x00000400
	COLOR_BUFFER_BIT   Enum = 0x00004000
)

// Primitive modes.
const (
	POINTS         Enum = 0x0000
	LINES          Enum = 0x0001
	LINE_LOOP      Enum = 0x0002
	LINE_STRIP     Enum = 0x0003
	TRIANGLES      Enum = 0x0004
	TRIANGLE_STRIP Enum = 0x0005
	TRIANGLE_FAN   Enum = 0x0006
)

// Blend factors and equations.
const (
	ZERO                     Enum = 0x0000
	ONE                      Enum = 0x0001
	SRC_COLOR                Enum = 0x0300
	ONE_MINUS_SRC_COLOR      Enum = 0x0301
	SRC_ALPHA                Enum = 0x0302
	ONE_MINUS_SRC_ALPHA      Enum = 0x0303
	DST_ALPHA                Enum = 0x0304
	ONE_MINUS_DST_ALPHA      Enum = 0x0305
	DST_COLOR                Enum = 0x0306
	ONE_MINUS_DST_COLOR      Enum = 0x0307
	SRC_ALPHA_SATURATE       Enum = 0x0308
	CONSTANT_COLOR           Enum = 0x8001
	ONE_MINUS_CONSTANT_COLOR Enum = 0x8002
	CONSTANT_ALPHA           Enum = 0x8003
	ONE_MINUS_CONSTANT_ALPHA Enum = 0x8004
	FUNC_ADD                 Enum = 0x8006
	MIN                      Enum = 0x8007
	MAX                      Enum = 0x8008
	FUNC_SUBTRACT            Enum = 0x800A
	FUNC_REVERSE_SUBTRACT    Enum = 0x800B
)

// Capabilities toggled with Enable/Disable.
const (
	CULL_FACE           Enum = 0x0B44
	DEPTH_TEST          Enum = 0x0B71
	STENCIL_TEST        Enum = 0x0B90
	DITHER              Enum = 0x0BD0
	BLEND               Enum = 0x0BE2
	SCISSOR_TEST        Enum = 0x0C11
	POLYGON_OFFSET_FILL Enum = 0x8037
)

// Faces and winding.
const (
	FRONT          Enum = 0x0404
	BACK           Enum = 0x0405
	FRONT_AND_BACK Enum = 0x0408
	CW             Enum = 0x0900
	CCW            Enum = 0x0901
)

// Errors.
const (
	NO_ERROR          Enum = 0x0000
	INVALID_ENUM      Enum = 0x0500
	INVALID_VALUE     Enum = 0x0501
	INVALID_OPERATION Enum = 0x0502
	OUT_OF_MEMORY     Enum = 0x0505
)

// Comparison functions.
const (
	NEVER    Enum = 0x0200
	LESS     Enum = 0x0201
	EQUAL    Enum = 0x0202
	LEQUAL   Enum = 0x0203
	GREATER  Enum = 0x0204
	NOTEQUAL Enum = 0x0205
	GEQUAL   Enum = 0x0206
	ALWAYS   Enum = 0x0207
)

// Stencil operations.
const (
	INVERT    Enum = 0x150A
	KEEP      Enum = 0x1E00
	REPLACE   Enum = 0x1E01
	INCR      Enum = 0x1E02
	DECR      Enum = 0x1E03
	INCR_WRAP Enum = 0x8507
	DECR_WRAP Enum = 0x8508
)

// Parameter names for Get*.
const (
	LINE_WIDTH                       Enum = 0x0B21
	CULL_FACE_MODE                   Enum = 0x0B45
	FRONT_FACE                       Enum = 0x0B46
	DEPTH_RANGE                      Enum = 0x0B70
	DEPTH_WRITEMASK                  Enum = 0x0B72
	DEPTH_CLEAR_VALUE                Enum = 0x0B73
	DEPTH_FUNC                       Enum = 0x0B74
	STENCIL_CLEAR_VALUE              Enum = 0x0B91
	STENCIL_FUNC                     Enum = 0x0B92
	STENCIL_VALUE_MASK               Enum = 0x0B93
	STENCIL_FAIL                     Enum = 0x0B94
	STENCIL_PASS_DEPTH_FAIL          Enum = 0x0B95
	STENCIL_PASS_DEPTH_PASS          Enum = 0x0B96
	STENCIL_REF                      Enum = 0x0B97
	STENCIL_WRITEMASK                Enum = 0x0B98
	VIEWPORT                         Enum = 0x0BA2
	SCISSOR_BOX                      Enum = 0x0C10
	COLOR_CLEAR_VALUE                Enum = 0x0C22
	COLOR_WRITEMASK                  Enum = 0x0C23
	MAX_TEXTURE_SIZE                 Enum = 0x0D33
	MAX_VIEWPORT_DIMS                Enum = 0x0D3A
	POLYGON_OFFSET_UNITS             Enum = 0x2A00
	BLEND_COLOR                      Enum = 0x8005
	BLEND_EQUATION_RGB               Enum = 0x8009
	POLYGON_OFFSET_FACTOR            Enum = 0x8038
	TEXTURE_BINDING_2D               Enum = 0x8069
	BLEND_DST_RGB                    Enum = 0x80C8
	BLEND_SRC_RGB                    Enum = 0x80C9
	BLEND_DST_ALPHA                  Enum = 0x80CA
	BLEND_SRC_ALPHA                  Enum = 0x80CB
	ACTIVE_TEXTURE                   Enum = 0x84E0
	MAX_RENDERBUFFER_SIZE            Enum = 0x84E8
	VERTEX_ARRAY_BINDING             Enum = 0x85B5
	STENCIL_BACK_FUNC                Enum = 0x8800
	STENCIL_BACK_FAIL                Enum = 0x8801
	STENCIL_BACK_PASS_DEPTH_FAIL     Enum = 0x8802
	STENCIL_BACK_PASS_DEPTH_PASS     Enum = 0x8803
	MAX_DRAW_BUFFERS                 Enum = 0x8824
	BLEND_EQUATION_ALPHA             Enum = 0x883D
	MAX_VERTEX_ATTRIBS               Enum = 0x8869
	MAX_TEXTURE_IMAGE_UNITS          Enum = 0x8872
	ARRAY_BUFFER_BINDING             Enum = 0x8894
	ELEMENT_ARRAY_BUFFER_BINDING     Enum = 0x8895
	MAX_COMBINED_TEXTURE_IMAGE_UNITS Enum = 0x8B4D
	CURRENT_PROGRAM                  Enum = 0x8B8D
	STENCIL_BACK_REF                 Enum = 0x8CA3
	STENCIL_BACK_VALUE_MASK          Enum = 0x8CA4
	STENCIL_BACK_WRITEMASK           Enum = 0x8CA5
	FRAMEBUFFER_BINDING              Enum = 0x8CA6
	RENDERBUFFER_BINDING             Enum = 0x8CA7
	MAX_COLOR_ATTACHMENTS            Enum = 0x8CDF
	NUM_EXTENSIONS                   Enum = 0x821D
)

// Strings.
const (
	VENDOR     Enum = 0x1F00
	RENDERER   Enum = 0x1F01
	VERSION    Enum = 0x1F02
	EXTENSIONS Enum = 0x1F03
)

// Data types.
const (
	BYTE              Enum = 0x1400
	UNSIGNED_BYTE     Enum = 0x1401
	SHORT             Enum = 0x1402
	UNSIGNED_SHORT    Enum = 0x1403
	INT               Enum = 0x1404
	UNSIGNED_INT      Enum = 0x1405
	FLOAT             Enum = 0x1406
	HALF_FLOAT        Enum = 0x140B
	UNSIGNED_INT_24_8 Enum = 0x84FA
)

// Pixel formats.
const (
	DEPTH_COMPONENT   Enum = 0x1902
	RED               Enum = 0x1903
	ALPHA             Enum = 0x1906
	RGB               Enum = 0x1907
	RGBA              Enum = 0x1908
	LUMINANCE         Enum = 0x1909
	RGBA8             Enum = 0x8058
	DEPTH_COMPONENT16 Enum = 0x81A5
	DEPTH_COMPONENT24 Enum = 0x81A6
	RGBA32F           Enum = 0x8814
	RGBA16F           Enum = 0x881A
	DEPTH_STENCIL     Enum = 0x84F9
	DEPTH24_STENCIL8  Enum = 0x88F0
)

// Buffers.
const (
	ARRAY_BUFFER         Enum = 0x8892
	ELEMENT_ARRAY_BUFFER Enum = 0x8893
	STREAM_DRAW          Enum = 0x88E0
	STATIC_DRAW          Enum = 0x88E4
	DYNAMIC_DRAW         Enum = 0x88E8
)

// Shaders and programs.
const (
	FRAGMENT_SHADER   Enum = 0x8B30
	VERTEX_SHADER     Enum = 0x8B31
	SHADER_TYPE       Enum = 0x8B4F
	DELETE_STATUS     Enum = 0x8B80
	COMPILE_STATUS    Enum = 0x8B81
	LINK_STATUS       Enum = 0x8B82
	VALIDATE_STATUS   Enum = 0x8B83
	INFO_LOG_LENGTH   Enum = 0x8B84
	ATTACHED_SHADERS  Enum = 0x8B85
	ACTIVE_UNIFORMS   Enum = 0x8B86
	ACTIVE_ATTRIBUTES Enum = 0x8B89
)

// Uniform and attribute types.
const (
	FLOAT_VEC2   Enum = 0x8B50
	FLOAT_VEC3   Enum = 0x8B51
	FLOAT_VEC4   Enum = 0x8B52
	INT_VEC2     Enum = 0x8B53
	INT_VEC3     Enum = 0x8B54
	INT_VEC4     Enum = 0x8B55
	BOOL         Enum = 0x8B56
	BOOL_VEC2    Enum = 0x8B57
	BOOL_VEC3    Enum = 0x8B58
	BOOL_VEC4    Enum = 0x8B59
	FLOAT_MAT2   Enum = 0x8B5A
	FLOAT_MAT3   Enum = 0x8B5B
	FLOAT_MAT4   Enum = 0x8B5C
	SAMPLER_2D   Enum = 0x8B5E
	SAMPLER_CUBE Enum = 0x8B60
)

// Textures.
const (
	TEXTURE_2D             Enum = 0x0DE1
	NEAREST                Enum = 0x2600
	LINEAR                 Enum = 0x2601
	NEAREST_MIPMAP_NEAREST Enum = 0x2700
	LINEAR_MIPMAP_NEAREST  Enum = 0x2701
	NEAREST_MIPMAP_LINEAR  Enum = 0x2702
	LINEAR_MIPMAP_LINEAR   Enum = 0x2703
	TEXTURE_MAG_FILTER     Enum = 0x2800
	TEXTURE_MIN_FILTER     Enum = 0x2801
	TEXTURE_WRAP_S         Enum = 0x2802
	TEXTURE_WRAP_T         Enum = 0x2803
	REPEAT                 Enum = 0x2901
	CLAMP_TO_EDGE          Enum = 0x812F
	MIRRORED_REPEAT        Enum = 0x8370
	TEXTURE0               Enum = 0x84C0
)

// Framebuffers and renderbuffers.
const (
	DEPTH_STENCIL_ATTACHMENT                  Enum = 0x821A
	DRAW_BUFFER0                              Enum = 0x8825
	READ_FRAMEBUFFER                          Enum = 0x8CA8
	DRAW_FRAMEBUFFER                          Enum = 0x8CA9
	FRAMEBUFFER_COMPLETE                      Enum = 0x8CD5
	FRAMEBUFFER_INCOMPLETE_ATTACHMENT         Enum = 0x8CD6
	FRAMEBUFFER_INCOMPLETE_MISSING_ATTACHMENT Enum = 0x8CD7
	FRAMEBUFFER_INCOMPLETE_DIMENSIONS         Enum = 0x8CD9
	FRAMEBUFFER_UNSUPPORTED                   Enum = 0x8CDD
	COLOR_ATTACHMENT0                         Enum = 0x8CE0
	DEPTH_ATTACHMENT                          Enum = 0x8D00
	STENCIL_ATTACHMENT                        Enum = 0x8D20
	FRAMEBUFFER                               Enum = 0x8D40
	RENDERBUFFER                              Enum = 0x8D41
)

// Extension names probed by the capability detector.
const (
	ExtVertexArrayObject = "OES_vertex_array_object"
	ExtInstancedArrays   = "ANGLE_instanced_arrays"
	ExtDrawBuffers       = "WEBGL_draw_buffers"
	ExtDepthTexture      = "WEBGL_depth_texture"
	ExtTextureFloat      = "OES_texture_float"
	ExtElementIndexUint  = "OES_element_index_uint"
)
