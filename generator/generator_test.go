package generator

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardanlabs/vk-converter/analysis"
)

func TestGenerateTypes(t *testing.T) {
	vkXML, err := os.ReadFile("../testdata/vk_test.xml")
	require.NoError(t, err)
	videoXML, err := os.ReadFile("../testdata/video_test.xml")
	require.NoError(t, err)
	a, err := analysis.New(vkXML, videoXML)
	require.NoError(t, err)

	files, err := New("vk", a.Items).Generate()
	require.NoError(t, err)
	require.Contains(t, files, "types.go")

	code := files["types.go"]
	assert.True(t, strings.HasPrefix(code, "// Code generated by vk-converter. DO NOT EDIT."))
	assert.Contains(t, code, "package vk\n")

	// Namespace prefixes come off; origins are preserved in the doc comment.
	assert.Contains(t, code, "type Extent2D struct{}")
	assert.Contains(t, code, "// VkExtent2D is declared by vk 1.0.")
	assert.Contains(t, code, "type TransformMatrixKHR struct{}")
	assert.Contains(t, code, "// VkTransformMatrixKHR is declared by vk VK_KHR_acceleration_structure.")
	assert.Contains(t, code, "type DecodeH264PictureInfo struct{}")

	// Member declarations are rendered as pseudo-declarations.
	assert.Contains(t, code, "//\tconst char* const* ppEnabledLayerNames")
	assert.Contains(t, code, "//\tfloat matrix[3][4]")
	assert.Contains(t, code, "//\tuint32_t instanceCustomIndex:24")
	assert.Contains(t, code, "//\tuint8_t RefPicList[STD_VIDEO_H264_MAX_NUM_LIST_REF]")
}

func TestToGoName(t *testing.T) {
	assert.Equal(t, "Extent2D", toGoName("VkExtent2D"))
	assert.Equal(t, "DecodeH264PictureInfo", toGoName("StdVideoDecodeH264PictureInfo"))
	assert.Equal(t, "Display", toGoName("Display"))
	assert.Equal(t, "Vk", toGoName("Vk"))
}
