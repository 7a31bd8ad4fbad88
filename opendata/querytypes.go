package opendata

// PackageShowQuery defines the query parameters for the CKAN action:
// https://docs.ckan.org/en/2.9/api/index.html#ckan.logic.action.get.package_show
//
// DKAN portals accept the Drupal node ID in place of the package name.
type PackageShowQuery struct {
	ID string `url:"id"` // node ID or package name; required

	IncludeTracking bool `url:"include_tracking,omitempty"`
}
