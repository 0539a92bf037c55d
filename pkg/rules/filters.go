package rules

// officialFilters is the registry of documented Liquid filters, standard
// and platform-specific. Filter names not in this set are flagged by the
// unknown-filter rule.
var officialFilters = map[string]bool{
	// standard string filters
	"append": true, "capitalize": true, "downcase": true, "escape": true,
	"escape_once": true, "lstrip": true, "newline_to_br": true, "prepend": true,
	"remove": true, "remove_first": true, "replace": true, "replace_first": true,
	"rstrip": true, "slice": true, "split": true, "strip": true,
	"strip_html": true, "strip_newlines": true, "truncate": true,
	"truncatewords": true, "upcase": true, "url_decode": true, "url_encode": true,

	// standard math filters
	"abs": true, "at_least": true, "at_most": true, "ceil": true,
	"divided_by": true, "floor": true, "minus": true, "modulo": true,
	"plus": true, "round": true, "times": true,

	// standard array filters
	"compact": true, "concat": true, "first": true, "join": true, "last": true,
	"map": true, "reverse": true, "size": true, "sort": true,
	"sort_natural": true, "uniq": true, "where": true,

	// standard misc
	"date": true, "default": true, "json": true,

	// platform string filters
	"camelize": true, "handleize": true, "handle": true, "md5": true,
	"sha1": true, "sha256": true, "hmac_sha1": true, "hmac_sha256": true,
	"base64_encode": true, "base64_decode": true, "pluralize": true,
	"url_param_escape": true,

	// platform URL filters
	"asset_img_url": true, "asset_url": true, "cart_url": true,
	"customer_login_link": true, "customer_logout_link": true,
	"customer_register_link": true, "file_img_url": true, "file_url": true,
	"global_asset_url": true, "image_url": true, "img_url": true,
	"link_to": true, "link_to_add_tag": true, "link_to_remove_tag": true,
	"link_to_tag": true, "link_to_type": true, "link_to_vendor": true,
	"payment_type_img_url": true, "payment_type_svg_tag": true,
	"shopify_asset_url": true, "sort_by": true, "url_for_type": true,
	"url_for_vendor": true, "within": true,

	// platform HTML filters
	"highlight": true, "highlight_active_tag": true, "img_tag": true,
	"placeholder_svg_tag": true, "preload_tag": true, "script_tag": true,
	"stylesheet_tag": true, "time_tag": true, "image_tag": true,
	"external_video_tag": true, "external_video_url": true,
	"model_viewer_tag": true, "video_tag": true,

	// platform color filters
	"brightness_difference": true, "color_brightness": true,
	"color_contrast": true, "color_darken": true, "color_desaturate": true,
	"color_difference": true, "color_lighten": true,
	"color_mix": true, "color_modify": true, "color_saturate": true,
	"color_to_hex": true, "color_to_hsl": true, "color_to_rgb": true,

	// platform money filters
	"money": true, "money_with_currency": true, "money_without_currency": true,
	"money_without_trailing_zeros": true,

	// platform translation filters
	"t": true, "translate": true, "format_address": true,

	// platform font filters
	"font_face": true, "font_modify": true, "font_url": true,

	// platform metafield and media filters
	"article_img_url": true, "collection_img_url": true, "product_img_url": true,
	"metafield_tag": true, "metafield_text": true, "weight_with_unit": true,
	"default_errors": true, "default_pagination": true, "time_tag_string": true,
}

// deprecatedFilters maps removed or deprecated filters to their modern
// replacement. These are auto-fixable: the rename is mechanical.
var deprecatedFilters = map[string]string{
	"img_url":            "image_url",
	"article_img_url":    "image_url",
	"collection_img_url": "image_url",
	"product_img_url":    "image_url",
	"img_tag":            "image_tag",
}

// hallucinatedFilters are names that look plausible but have never
// existed in the platform dialect, mapped to corrective suggestions.
var hallucinatedFilters = map[string]string{
	"color_extract": "use color_brightness or color_to_rgb",
	"rgb":           "use CSS rgb() directly",
	"rgba":          "use CSS rgba() directly",
	"hex_to_rgb":    "use color_to_rgb",
	"get":           "use bracket notation [key]",
	"fetch":         "use an assign statement",
	"parse":         "use split or string filters",
	"eval":          "not available in Liquid",
	"execute":       "not available in Liquid",
	"include":       "use the {% render %} tag",
	"render":        "use the {% render %} tag",
	"partial":       "use the {% render %} tag",
	"template":      "use the {% render %} tag",
	"component":     "use the {% render %} tag",
	"load":          "use an assign statement",
	"require":       "not available in Liquid",
	"import":        "not available in Liquid",
}

// escapingFilters neutralize user-controlled content for HTML output.
// An output whose chain contains any of these passes the unescaped
// -output rule.
var escapingFilters = map[string]bool{
	"escape":              true,
	"escape_once":         true,
	"json":                true,
	"url_encode":          true,
	"url_param_escape":    true,
	"handleize":           true,
	"strip_html":          true,
	"money":               true,
	"money_with_currency": true,
}

// suspiciousObjects are global object names that do not exist in the
// platform dialect, mapped to what the author probably meant.
var suspiciousObjects = map[string]string{
	"products": "use collections[handle].products or search.results",
	"items":    "use cart.items or line_items",
	"data":     "use metaobjects or settings",
	"config":   "use settings",
	"store":    "use shop",
	"user":     "use customer",
	"session":  "not available in Liquid",
}
