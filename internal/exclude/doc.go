// Strips runtime-provided packages from an installation target.
//
// The AWS Lambda Python runtime ships boto3 and botocore natively;
// bundling them wastes archive space and can shadow the runtime's
// patched versions. A [Set] holds the excluded names and removes
// matching top-level entries in place. Matching never traces the
// transitive dependencies of an excluded package.
package exclude
